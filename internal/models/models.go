// package models defines the data model for ISRC catalog lookups
package models

// TrackMatch is the outcome of a single ISRC lookup against the catalog.
//
// A match is either a success (metadata populated, Err empty) or a
// failure (Err populated, metadata empty), never both.
type TrackMatch struct {
	ISRC        string `json:"isrc"`
	ReleaseYear string `json:"release_year,omitempty"`
	TrackName   string `json:"track_name,omitempty"`
	ArtistName  string `json:"artist_name,omitempty"`
	AlbumName   string `json:"album_name,omitempty"`
	Err         string `json:"error,omitempty"`
}

// Succeeded reports whether the lookup produced metadata.
func (m TrackMatch) Succeeded() bool {
	return m.Err == ""
}

// Status returns the human-readable status label used in reports.
func (m TrackMatch) Status() string {
	if m.Succeeded() {
		return "Success"
	}
	return "Failed"
}

// Failure constructs a failed TrackMatch for the given ISRC.
func Failure(isrc, reason string) TrackMatch {
	return TrackMatch{ISRC: isrc, Err: reason}
}
