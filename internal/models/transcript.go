package models

import "time"

// Column names expected in the raw feed header. The feed is case sensitive,
// so these must match the upstream export exactly.
const (
	ColCompanyName   = "COMPANYNAME"
	ColCompanyID     = "COMPANYID"
	ColTranscriptID  = "TRANSCRIPTID"
	ColComponentID   = "TRANSCRIPTCOMPONENTID"
	ColCallDate      = "DATEOFCALLUTC"
	ColAnnouncedDate = "ANNOUNCEDDATEUTC"
	ColComponentType = "TRANSCRIPTCOMPONENTTYPE"
	ColSpeakerType   = "SPEAKERTYPE"
	ColText          = "COMPONENTTEXT"
)

// RequiredColumns must all be present in the feed header; ingestion refuses
// to start without them. TRANSCRIPTCOMPONENTID is optional because older
// feed exports omit it.
var RequiredColumns = []string{
	ColCompanyName,
	ColCompanyID,
	ColTranscriptID,
	ColCallDate,
	ColAnnouncedDate,
	ColComponentType,
	ColSpeakerType,
	ColText,
}

// Component is one normalized transcript component (a question, an answer,
// a prepared remark) and the schema of the persisted artifact. A nil
// timestamp means the raw value failed to parse and was degraded to null.
type Component struct {
	CompanyName   string     `parquet:"companyname" json:"companyname"`
	CompanyID     string     `parquet:"companyid" json:"companyid"`
	TranscriptID  string     `parquet:"transcriptid" json:"transcriptid"`
	ComponentID   string     `parquet:"transcriptcomponentid,optional" json:"transcriptcomponentid,omitempty"`
	CallDate      *time.Time `parquet:"dateofcallutc,optional" json:"dateofcallutc"`
	AnnouncedDate *time.Time `parquet:"announceddateutc,optional" json:"announceddateutc"`
	ComponentType string     `parquet:"transcriptcomponenttype" json:"transcriptcomponenttype"`
	SpeakerType   string     `parquet:"speakertype" json:"speakertype"`
	Text          string     `parquet:"componenttext" json:"componenttext"`
}
