package xray

import (
	"cmp"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// ArtifactExt is the extension of xray artifacts.
const ArtifactExt = ".xray"

const artifactTimeLayout = "20060102_150405"

var artifactNameRE = regexp.MustCompile(`^xray_(\d{8}_\d{6})(?:_(\d+))?\.xray$`)

// ArtifactName returns the artifact name for a capture time. seq
// disambiguates captures within the same second; 0 means no suffix.
func ArtifactName(capturedAt time.Time, seq int) string {
	stamp := capturedAt.Format(artifactTimeLayout)
	if seq == 0 {
		return fmt.Sprintf("xray_%s%s", stamp, ArtifactExt)
	}
	return fmt.Sprintf("xray_%s_%d%s", stamp, seq, ArtifactExt)
}

// ParseArtifactName extracts the capture time embedded in an artifact
// name, interpreted in the local zone.
func ParseArtifactName(name string) (time.Time, bool) {
	m := artifactNameRE.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(artifactTimeLayout, m[1], time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsArtifactName reports whether name follows the artifact naming convention.
func IsArtifactName(name string) bool {
	_, ok := ParseArtifactName(name)
	return ok
}

// compareNames orders artifact names by embedded capture time and then by
// sequence suffix compared as a number, so _10 follows _9. Names that do not
// follow the convention compare as plain strings.
func compareNames(x, y string) int {
	mx := artifactNameRE.FindStringSubmatch(filepath.Base(x))
	my := artifactNameRE.FindStringSubmatch(filepath.Base(y))
	if mx != nil && my != nil {
		if c := strings.Compare(mx[1], my[1]); c != 0 {
			return c
		}
		if c := compareDigits(mx[2], my[2]); c != 0 {
			return c
		}
	}
	return strings.Compare(x, y)
}

// compareDigits compares two unsigned decimal strings by value.
// An empty string counts as zero.
func compareDigits(x, y string) int {
	x = strings.TrimLeft(x, "0")
	y = strings.TrimLeft(y, "0")
	if len(x) != len(y) {
		return cmp.Compare(len(x), len(y))
	}
	return strings.Compare(x, y)
}
