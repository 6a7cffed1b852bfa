package main

import (
	"flag"
	"fmt"
	"os"

	"neutopia-rando/internal/randomizer"
	"neutopia-rando/internal/rom"
	"neutopia-rando/pkg/log"
	"neutopia-rando/pkg/utils"
)

func main() {
	romFile := flag.String("rom", "", "The rom file to load (.pce, .zip, .7z or .gz)")
	outFile := flag.String("out", "", "The output file (defaults to neutopia-randomizer-<seed>.pce)")
	seedStr := flag.String("seed", "", "The seed: a seed code from a previous run or any phrase (random when empty)")
	typeStr := flag.String("type", "global", "The randomization type: global, local or none")
	info := flag.Bool("info", false, "Verify the rom, print what is known about it and exit")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	lg := log.New()
	if *debug {
		lg = log.Debug()
	}

	if *romFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	data, err := utils.LoadFile(*romFile)
	if err != nil {
		lg.Errorf("loading %s: %v", *romFile, err)
		os.Exit(1)
	}

	if *info {
		ri, err := rom.Verify(data)
		if err != nil {
			lg.Errorf("%v", err)
			os.Exit(1)
		}
		fmt.Printf("%s\n", ri.Desc)
		fmt.Printf("  md5:      %s\n", ri.MD5Hash)
		fmt.Printf("  region:   %s\n", ri.Region)
		fmt.Printf("  headered: %t\n", ri.Headered)
		return
	}

	typ, err := randomizer.ParseRandoType(*typeStr)
	if err != nil {
		lg.Errorf("%v", err)
		os.Exit(2)
	}

	seed := randomizer.NewSeed()
	if *seedStr != "" {
		seed = randomizer.ParseSeed(*seedStr)
	}
	lg.Infof("%s randomization with seed %s", typ, randomizer.FormatSeed(seed))

	out, _, err := randomizer.Randomize(data, randomizer.Config{
		Type: typ,
		Seed: seed,
		Log:  lg,
	})
	if err != nil {
		lg.Errorf("%v", err)
		os.Exit(1)
	}

	name := *outFile
	if name == "" {
		name = fmt.Sprintf("neutopia-randomizer-%s.pce", randomizer.FormatSeed(seed))
	}
	if err := os.WriteFile(name, out, 0o644); err != nil {
		lg.Errorf("writing %s: %v", name, err)
		os.Exit(1)
	}
	lg.Infof("wrote %s", name)
}
