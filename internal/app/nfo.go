package app

import (
	"encoding/xml"
	"os"
)

const nfoHeader = "<?xml version=\"1.0\" encoding=\"utf-8\" standalone=\"yes\"?>\n"

type episodeDetails struct {
	XMLName xml.Name `xml:"episodedetails"`
	Title   string   `xml:"title"`
	Plot    string   `xml:"plot"`
	Aired   string   `xml:"aired"`
	Season  int      `xml:"season"`
	Episode int      `xml:"episode"`
}

// WriteSidecar writes the .nfo companion file for a downloaded episode.
// Cosmetic metadata only: a crash mid-write is acceptable, no atomicity
// beyond a single WriteFile.
func WriteSidecar(path, title, plot string, loc OutputLocation) error {
	doc := episodeDetails{
		Title:   title,
		Plot:    plot,
		Aired:   loc.Aired.Format("2006-01-02"),
		Season:  loc.Season,
		Episode: loc.Episode,
	}
	b, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append([]byte(nfoHeader), append(b, '\n')...), 0o644)
}
