package intel

import (
	"context"
	"io"
	"net/http"
	"sort"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"

	"github.com/osintscan/osintscan/internal/model"
)

// limitBody caps a response body read at the configured maximum.
func limitBody(resp *http.Response, maxBody int64) io.Reader {
	return io.LimitReader(resp.Body, maxBody)
}

// inspectAvatar downloads a profile's avatar during a deep scan and
// appends EXIF findings to the profile notes. Avatars re-uploaded
// without stripping metadata can carry GPS coordinates, device serials,
// and author names; large platforms strip EXIF on upload, but smaller
// and self-hosted ones often do not.
//
// Failures are silent: avatar metadata is opportunistic evidence and
// never worth failing a probe over.
func (a *SocialAdapter) inspectAvatar(ctx context.Context, match *model.SocialProfileMatch) {
	data, err := a.source.fetchBytes(ctx, match.AvatarURL)
	if err != nil {
		a.logger.Debug("avatar fetch failed", "platform", match.Platform, "error", err)
		return
	}

	notes := exifNotes(data)
	if len(notes) == 0 {
		return
	}

	joined := "avatar EXIF: " + strings.Join(notes, "; ")
	if match.Notes != "" {
		match.Notes += "; " + joined
	} else {
		match.Notes = joined
	}
}

// exifNotes extracts noteworthy EXIF findings from image bytes. Images
// without EXIF data (the common case after platform re-encoding) yield
// no notes.
func exifNotes(data []byte) []string {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil || rawExif == nil {
		return nil
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return nil
	}

	// Collect by finding class so one avatar with many GPS tags makes
	// one note, not four.
	classes := make(map[string]bool)
	for _, entry := range entries {
		switch entry.TagName {
		case "GPSLatitude", "GPSLongitude", "GPSLatitudeRef", "GPSLongitudeRef":
			classes["GPS coordinates present"] = true
		case "Make", "Model":
			classes["camera "+entry.Formatted] = true
		case "SerialNumber", "CameraSerialNumber", "BodySerialNumber", "LensSerialNumber":
			classes["device serial number present"] = true
		case "Artist", "Author", "Copyright", "XPAuthor":
			classes["author "+entry.Formatted] = true
		case "Software", "ProcessingSoftware":
			classes["software "+entry.Formatted] = true
		}
	}

	notes := make([]string, 0, len(classes))
	for class := range classes {
		notes = append(notes, class)
	}
	sort.Strings(notes)
	return notes
}
