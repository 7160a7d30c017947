package artifact_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crowndaisy76/FACT/artifact"
)

func TestWellKnownTargetNames(t *testing.T) {
	assert.Equal(t, "$MFT", artifact.MFT.String())
	assert.Equal(t, "$LogFile", artifact.LogFile.String())
	assert.Equal(t, ".", artifact.Root.String())
}

func TestByPathUsesPathAsName(t *testing.T) {
	target := artifact.ByPath(`Windows\System32\config\SAM`)
	assert.Equal(t, `Windows\System32\config\SAM`, target.String())
}

func TestSupplementedHiveTargets(t *testing.T) {
	assert.Equal(t, `Windows\System32\config\SAM`, artifact.SAM.String())
	assert.Equal(t, `Windows\System32\config\SYSTEM`, artifact.System.String())
	assert.Equal(t, `Windows\System32\config\SECURITY`, artifact.Security.String())
	assert.Equal(t, `Windows\System32\config\SOFTWARE`, artifact.Software.String())
}
