package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	buttons "github.com/asjoyner/buttons-go"
)

type store interface {
	io.ReaderAt
	io.WriterAt
}

func main() {
	kind := flag.String("store-kind", "file", "options store: file or i2c")
	path := flag.String("store", "buttons.eeprom", "options image file")
	bus := flag.String("i2c-bus", "", "I2C bus name, empty for the first bus")
	addr := flag.Uint("i2c-addr", buttons.DefaultEEPROMAddr, "EEPROM I2C address")
	offset := flag.Int64("offset", buttons.OptionsOffset, "offset of the options records")
	show := flag.Bool("show", false, "print the disabled buttons and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: options [flags] [button ...]\n\nDisable the named buttons; no names enables all of them.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	var st store
	switch *kind {
	case "file":
		st = buttons.FileStore(*path)
	case "i2c":
		e, err := buttons.OpenEEPROM(*bus, uint16(*addr))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open EEPROM: %v\n", err)
			os.Exit(1)
		}
		defer e.Close()
		st = e
	default:
		fmt.Fprintf(os.Stderr, "unknown store-kind %q\n", *kind)
		os.Exit(2)
	}

	if !*show {
		var ids []buttons.ButtonID
		for _, arg := range flag.Args() {
			id, err := buttons.ParseButtonID(arg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
				os.Exit(2)
			}
			ids = append(ids, id)
		}
		if _, err := st.WriteAt(buttons.EncodeRecords(ids), *offset); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write options: %v\n", err)
			os.Exit(1)
		}
	}

	reg := buttons.LoadRegistry(st, *offset)
	fmt.Printf("disabled: %v\n", reg.Disabled())
}
