package randomizer

import (
	"embed"
	"fmt"

	"neutopia-rando/internal/patch"
)

//go:embed patches/*.ips
var patchFS embed.FS

// patchFiles are applied in order before the game is parsed. skip-intro cuts
// the title crawl, fast-text removes the per-glyph delay in dialogue, and
// chest-flags makes reopened chests re-check their flag so relocated
// progression items cannot be collected twice.
var patchFiles = []string{
	"patches/skip-intro.ips",
	"patches/fast-text.ips",
	"patches/chest-flags.ips",
}

// applyPatches applies the embedded patch set to the working image in place.
func applyPatches(buf []byte) error {
	for _, name := range patchFiles {
		data, err := patchFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("embedded patch %s: %w", name, err)
		}
		if err := patch.Apply(buf, data); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
