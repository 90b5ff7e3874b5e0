package models

import "time"

// Wire shapes returned by the Gong v2 API.

type GongUser struct {
	ID           string `json:"id"`
	EmailAddress string `json:"emailAddress"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Title        string `json:"title"`
	Active       bool   `json:"active"`
}

type GongUsersResponse struct {
	Users []GongUser `json:"users"`
}

type GongCall struct {
	ID            string    `json:"id"`
	URL           string    `json:"url"`
	Title         string    `json:"title"`
	Scheduled     time.Time `json:"scheduled"`
	Started       time.Time `json:"started"`
	Duration      int       `json:"duration"`
	PrimaryUserID string    `json:"primaryUserId"`
	Direction     string    `json:"direction"`
	System        string    `json:"system"`
	Scope         string    `json:"scope"`
	Media         string    `json:"media"`
	Language      string    `json:"language"`
	WorkspaceID   string    `json:"workspaceId"`
	MeetingURL    string    `json:"meetingUrl"`
	IsPrivate     bool      `json:"isPrivate"`
}

type GongCallsResponse struct {
	Calls []GongCall `json:"calls"`
}

type Sentence struct {
	Start int64  `json:"start"`
	End   int64  `json:"end"`
	Text  string `json:"text"`
}

type TranscriptSegment struct {
	SpeakerID string     `json:"speakerId"`
	Topic     string     `json:"topic"`
	Sentences []Sentence `json:"sentences"`
}

// CallTranscript is one transcript entry for a call. A single call id can
// carry several entries (e.g. reconnected meetings).
type CallTranscript struct {
	CallID     string              `json:"callId"`
	Transcript []TranscriptSegment `json:"transcript"`
}

type TranscriptResponse struct {
	CallTranscripts []CallTranscript `json:"callTranscripts"`
}
