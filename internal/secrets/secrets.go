// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Key file names recognized in the secrets directory.
const (
	FileMozToken           = "moz-token"
	FileDataForSEOLogin    = "dataforseo-login"
	FileDataForSEOPassword = "dataforseo-password"
	FileGSCAPIKey          = "gsc-api-key"
	FilePageSpeedAPIKey    = "pagespeed-api-key"
)

// Keys holds the provider credentials loaded from the secrets directory.
// Empty fields mean the corresponding provider is unconfigured.
type Keys struct {
	MozToken           string
	DataForSEOLogin    string
	DataForSEOPassword string
	GSCAPIKey          string
	PageSpeedAPIKey    string
}

// Names returns the sorted names of the keys that are present, for startup
// logging without exposing values.
func (k Keys) Names() []string {
	var names []string
	for name, v := range map[string]string{
		FileMozToken:           k.MozToken,
		FileDataForSEOLogin:    k.DataForSEOLogin,
		FileDataForSEOPassword: k.DataForSEOPassword,
		FileGSCAPIKey:          k.GSCAPIKey,
		FilePageSpeedAPIKey:    k.PageSpeedAPIKey,
	} {
		if v != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Load reads the recognized key files from dir. A missing directory or
// missing files are not errors; Load returns zero-valued Keys. Unreadable
// files produce a warning on stderr but do not abort.
func Load(dir string) (Keys, error) {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return Keys{}, nil
		}
		return Keys{}, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	read := func(name string) string {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if !os.IsNotExist(err) {
				fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			}
			return ""
		}
		return strings.TrimSpace(string(data))
	}

	return Keys{
		MozToken:           read(FileMozToken),
		DataForSEOLogin:    read(FileDataForSEOLogin),
		DataForSEOPassword: read(FileDataForSEOPassword),
		GSCAPIKey:          read(FileGSCAPIKey),
		PageSpeedAPIKey:    read(FilePageSpeedAPIKey),
	}, nil
}
