package logging

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LogFile describes one operational log file.
type LogFile struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	Modified int64  `json:"modified"` // unix seconds

	modTime int64
}

// Listing is the log directory view served by the web UI.
type Listing struct {
	Files         []LogFile `json:"files"`
	LatestContent string    `json:"latest_content"`
}

// List returns the log files in dir, newest first, plus the content of the newest one.
func List(dir string) Listing {
	listing := Listing{Files: []LogFile{}}

	entries, err := os.ReadDir(dir)
	if err == nil {
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasPrefix(entry.Name(), BaseName) {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			listing.Files = append(listing.Files, LogFile{
				Name:     entry.Name(),
				Size:     info.Size(),
				Modified: info.ModTime().Unix(),
				modTime:  info.ModTime().UnixNano(),
			})
		}
	}

	sort.SliceStable(listing.Files, func(i, j int) bool {
		return listing.Files[i].modTime > listing.Files[j].modTime
	})

	if len(listing.Files) == 0 {
		listing.LatestContent = "No log files found"
		return listing
	}

	data, err := os.ReadFile(filepath.Join(dir, listing.Files[0].Name))
	if err != nil {
		listing.LatestContent = "Unable to read log file"
		return listing
	}
	listing.LatestContent = string(data)

	return listing
}
