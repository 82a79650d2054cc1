package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jwebster45206/treasure-hunt/pkg/hunt"
	"github.com/mattn/go-runewidth"
)

func main() {
	dump := flag.String("dump", "", "print the built-in catalog for a locale (e.g. en, zh) and exit")
	flag.Parse()

	if *dump != "" {
		data, err := hunt.MarshalCatalog(hunt.CatalogFor(*dump))
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(data)
		return
	}

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-dump locale] <catalog.yaml>\n", os.Args[0])
		os.Exit(1)
	}

	filename := flag.Arg(0)
	validator := &CatalogValidator{out: os.Stdout}

	if err := validator.validateFile(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Catalog file is valid!")
}

// slotTextCells is how many cells of text a revealed slot shows on the default arena
const slotTextCells = (600/hunt.StepCount - 10) / 8

type CatalogValidator struct {
	out      io.Writer
	warnings []string
}

func (v *CatalogValidator) validateFile(filename string) error {
	fmt.Fprintf(v.out, "Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	ext := filepath.Ext(baseName)
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("catalog file must have .yaml or .yml extension: %s", baseName)
	}

	if !isValidCatalogFilename(strings.TrimSuffix(baseName, ext)) {
		return fmt.Errorf("catalog filename '%s' must be lowercase snake_case (e.g., en_pirate.yaml, not en-pirate.yaml)", baseName)
	}

	v.warnings = nil

	c, err := hunt.LoadCatalog(filename)
	if err != nil {
		return err
	}

	for _, s := range c.Steps {
		fmt.Fprintf(v.out, "  %-16s %-15s %s\n", s.ID.Title(), s.Policy, s.Latency)
		v.checkWidth(s.ID, "success", s.Success)
		v.checkWidth(s.ID, "cost", s.Cost)
	}

	for _, w := range v.warnings {
		fmt.Fprintln(v.out, w)
	}
	return nil
}

// checkWidth warns when a revealed text will be clipped inside its slot
func (v *CatalogValidator) checkWidth(id hunt.StepID, field, text string) {
	if w := runewidth.StringWidth(text); w > slotTextCells {
		v.addWarning(fmt.Sprintf("step %s %s text is %d cells wide; a slot shows %d", id, field, w, slotTextCells))
	}
}

func (v *CatalogValidator) addWarning(msg string) {
	v.warnings = append(v.warnings, "  ! "+msg)
}

var validFilenameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

func isValidCatalogFilename(name string) bool {
	// Allow 'x.' prefix for experimental catalogs
	name = strings.TrimPrefix(name, "x.")
	return validFilenameRegex.MatchString(name)
}
