// Command mftls lists the entries of a directory on an NTFS volume image by
// walking its $INDEX_ROOT/$INDEX_ALLOCATION entries.
package main

import (
	"fmt"
	"os"

	"github.com/dsoprea/go-logging"
	"github.com/dustin/go-humanize"
	"github.com/jessevdk/go-flags"

	"github.com/crowndaisy76/FACT/volume"
)

type rootParameters struct {
	FilesystemFilepath string `short:"f" long:"filesystem-filepath" description:"File-path of the NTFS volume image" required:"true"`
	Path               string `short:"p" long:"path" description:"\\-separated directory path from the volume root" default:""`
}

var rootArguments = new(rootParameters)

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

	f, err := os.Open(rootArguments.FilesystemFilepath)
	log.PanicIf(err)

	defer f.Close()

	vol, err := volume.Open(f)
	log.PanicIf(err)

	dirInode := uint64(volume.RootInode)
	if rootArguments.Path != "" {
		dirInode, err = vol.InodeByPath(rootArguments.Path)
		log.PanicIf(err)
	}

	entries, err := vol.ListDirectory(dirInode)
	log.PanicIf(err)

	for _, entry := range entries {
		fmt.Printf("%15s  %6d  %s\n",
			humanize.Comma(int64(entry.FileName.RealSize)),
			entry.FileReference.RecordNumber,
			entry.FileName.Name)
	}
}
