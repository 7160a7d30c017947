// Command artifactdump extracts a single forensic artifact's $DATA stream
// from an NTFS volume image and writes it to a file (or stdout).
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dsoprea/go-logging"
	"github.com/dustin/go-humanize"
	"github.com/jessevdk/go-flags"

	"github.com/crowndaisy76/FACT/artifact"
	"github.com/crowndaisy76/FACT/volume"
)

type rootParameters struct {
	FilesystemFilepath string `short:"f" long:"filesystem-filepath" description:"File-path of the NTFS volume image" required:"true"`
	Target             string `short:"t" long:"target" description:"Well-known artifact name (e.g. $MFT, $LogFile) or a \\-separated path from the volume root" required:"true"`
	OutputFilepath     string `short:"o" long:"output-filepath" description:"File-path to write to ('-' for STDOUT)" required:"true"`
	MaxBytes           int64  `short:"m" long:"max-bytes" description:"Ceiling on a non-resident extraction" default:"104857600"`
	Verbose            bool   `short:"v" long:"verbose" description:"Print a trace of what's happening"`
}

var rootArguments = new(rootParameters)

var wellKnownTargets = map[string]artifact.Target{
	artifact.MFT.String():       artifact.MFT,
	artifact.MFTMirr.String():   artifact.MFTMirr,
	artifact.LogFile.String():   artifact.LogFile,
	artifact.Volume.String():    artifact.Volume,
	artifact.AttrDef.String():   artifact.AttrDef,
	artifact.Root.String():      artifact.Root,
	artifact.Bitmap.String():    artifact.Bitmap,
	artifact.Boot.String():      artifact.Boot,
	artifact.BadClus.String():   artifact.BadClus,
	artifact.Secure.String():    artifact.Secure,
	artifact.UpCase.String():    artifact.UpCase,
	artifact.Extend.String():    artifact.Extend,
	artifact.SAM.String():       artifact.SAM,
	artifact.System.String():    artifact.System,
	artifact.Security.String():  artifact.Security,
	artifact.Software.String():  artifact.Software,
}

func resolveTarget(name string) artifact.Target {
	if t, found := wellKnownTargets[name]; found {
		return t
	}
	if index, err := strconv.ParseUint(name, 10, 64); err == nil {
		return artifact.ByIndex(name, index)
	}
	return artifact.ByPath(name)
}

func verbosef(format string, args ...interface{}) {
	if rootArguments.Verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

func main() {
	defer func() {
		if state := recover(); state != nil {
			err := log.Wrap(state.(error))
			log.PrintError(err)
			os.Exit(-1)
		}
	}()

	p := flags.NewParser(rootArguments, flags.Default)

	_, err := p.Parse()
	if err != nil {
		os.Exit(1)
	}

	verbosef("Opening volume: %s\n", rootArguments.FilesystemFilepath)

	f, err := os.Open(rootArguments.FilesystemFilepath)
	log.PanicIf(err)

	defer f.Close()

	vol, err := volume.Open(f)
	log.PanicIf(err)

	verbosef("Volume opened, cluster size %d bytes\n", vol.ClusterSize())

	target := resolveTarget(rootArguments.Target)
	verbosef("Collecting target: %s\n", target.String())

	c := artifact.NewCollector(vol)
	data, err := c.CollectWithLimit(target, rootArguments.MaxBytes)
	log.PanicIf(err)

	var out *os.File
	if rootArguments.OutputFilepath == "-" {
		out = os.Stdout
	} else {
		out, err = os.Create(rootArguments.OutputFilepath)
		log.PanicIf(err)

		defer out.Close()
	}

	n, err := out.Write(data)
	log.PanicIf(err)

	if rootArguments.OutputFilepath != "-" {
		fmt.Printf("%s (%s) written to %s\n", humanize.Comma(int64(n)), humanize.Bytes(uint64(n)), rootArguments.OutputFilepath)
	}
}
