package model

import "time"

// AppVersion is the published mobile app release policy.
type AppVersion struct {
	ID                 string    `json:"_id,omitempty"`
	LatestVersion      string    `json:"latestVersion"`
	MinimumVersion     string    `json:"minimumVersion"`
	AndroidForceUpdate bool      `json:"androidForceUpdate"`
	IOSForceUpdate     bool      `json:"iosForceUpdate"`
	PlayStoreURL       string    `json:"playStoreUrl,omitempty"`
	AppStoreURL        string    `json:"appStoreUrl,omitempty"`
	UpdateMessage      string    `json:"updateMessage,omitempty"`
	UpdatedAt          time.Time `json:"updatedAt,omitempty"`
}
