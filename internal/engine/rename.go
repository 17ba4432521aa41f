package engine

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const maxNameLength = 20

// NormalizeName trims and NFC-normalizes name and reports whether the result
// is an acceptable hunter name.
func NormalizeName(name string) (string, bool) {
	name = norm.NFC.String(strings.TrimSpace(name))
	n := utf8.RuneCountInString(name)
	return name, n >= 1 && n <= maxNameLength
}

// Rename sets the hunter name. Invalid names are ignored.
func (e *Engine) Rename(name string) (bool, error) {
	name, ok := NormalizeName(name)
	if !ok {
		return false, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	var errs errorOnce
	errs.add(e.ensureLoaded())
	if name == e.rec.Name {
		return false, errs.err
	}
	e.rec.Name = name
	e.logger.Info("Hunter renamed", "name", name)
	errs.add(e.persist())
	return true, errs.err
}
