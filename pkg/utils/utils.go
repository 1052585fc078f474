package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Supported audio file extensions
var audioExtensions = map[string]bool{
	".mp3":  true,
	".m4a":  true,
	".flac": true,
	".opus": true,
	".wav":  true,
	".aac":  true,
	".ogg":  true,
}

// Track pairs one raw info record on disk with the audio file it describes.
type Track struct {
	InfoPath  string
	AudioPath string // empty when no matching audio file was found
}

// IsAudioFile reports whether the path has a supported audio extension.
func IsAudioFile(path string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(path))]
}

// FindAudioFiles recursively finds all audio files in a directory.
func FindAudioFiles(dir string) ([]string, error) {
	if dir == "" {
		return nil, fmt.Errorf("directory path cannot be empty")
	}

	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("directory does not exist: %s", dir)
	}

	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}

		if !info.IsDir() && IsAudioFile(path) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", dir, err)
	}

	return files, nil
}

// FindTracks walks dir for yt-dlp style "*.info.json" files and pairs each
// with the audio file sharing its stem ("abc.info.json" pairs with
// "abc.m4a"). Records without a matching audio file are still returned so
// the caller can report them.
func FindTracks(dir string) ([]Track, error) {
	if dir == "" {
		return nil, fmt.Errorf("directory path cannot be empty")
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("directory does not exist: %s", dir)
	}

	audioByStem := make(map[string]string)
	var infos []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		name := filepath.Base(path)
		switch {
		case strings.HasSuffix(name, ".info.json"):
			infos = append(infos, path)
		case IsAudioFile(path):
			stem := strings.TrimSuffix(name, filepath.Ext(name))
			audioByStem[filepath.Join(filepath.Dir(path), stem)] = path
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", dir, err)
	}

	tracks := make([]Track, 0, len(infos))
	for _, infoPath := range infos {
		stem := strings.TrimSuffix(infoPath, ".info.json")
		tracks = append(tracks, Track{
			InfoPath:  infoPath,
			AudioPath: audioByStem[stem],
		})
	}
	return tracks, nil
}
