package fragment_test

import (
	"bytes"
	"io"
	"io/ioutil"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crowndaisy76/FACT/fragment"
)

func TestReaderSequential(t *testing.T) {
	testData := generateTestData()

	fragments := []fragment.Fragment{
		{Offset: 0, Length: 147},
		{Offset: 147, Length: 1198},
		{Offset: 1345, Length: 1711},
		{Offset: 3056, Length: 463},
		{Offset: 3519, Length: 1534},
		{Offset: 5053, Length: 701},
		{Offset: 5754, Length: 1351},
		{Offset: 7105, Length: 703},
		{Offset: 7808, Length: 1948},
		{Offset: 9756, Length: 484},
	}

	r := fragment.NewReader(bytes.NewReader(testData), fragments)

	data, err := ioutil.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, testData, data)
}

func TestReaderNonSequential(t *testing.T) {
	testData := generateTestData()

	fragments := []fragment.Fragment{
		{Offset: 3756, Length: 1810},
		{Offset: 6645, Length: 3423},
		{Offset: 803, Length: 6154},
	}

	r := fragment.NewReader(bytes.NewReader(testData), fragments)

	data, err := ioutil.ReadAll(r)
	require.NoError(t, err)

	expected := append([]byte{}, testData[3756:3756+1810]...)
	expected = append(expected, testData[6645:6645+3423]...)
	expected = append(expected, testData[803:803+6154]...)

	assert.Equal(t, expected, data)
}

func TestReaderEOFAfterLastFragment(t *testing.T) {
	testData := generateTestData()
	fragments := []fragment.Fragment{{Offset: 0, Length: 10}}

	r := fragment.NewReader(bytes.NewReader(testData), fragments)

	buf := make([]byte, 10)
	n, err := io.ReadFull(r, buf)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	n, err = r.Read(make([]byte, 1))
	assert.Equal(t, 0, n)
	assert.Equal(t, io.EOF, err)
}

func TestReaderNoFragments(t *testing.T) {
	r := fragment.NewReader(bytes.NewReader(nil), nil)
	n, err := r.Read(make([]byte, 1))
	assert.Equal(t, 0, n)
	assert.Equal(t, io.EOF, err)
}

func TestReaderSplitsAcrossSmallFragment(t *testing.T) {
	testData := generateTestData()
	fragments := []fragment.Fragment{
		{Offset: 0, Length: 5},
		{Offset: 100, Length: 5},
	}

	r := fragment.NewReader(bytes.NewReader(testData), fragments)

	buf := make([]byte, 8)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 5, n, "a single Read must not cross a fragment boundary")
	assert.Equal(t, testData[:5], buf[:5])
}

func generateTestData() []byte {
	r := rand.New(rand.NewSource(1))
	ret := make([]byte, 10240)
	_, _ = r.Read(ret)
	return ret
}
