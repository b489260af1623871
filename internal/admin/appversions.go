package admin

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/investdesk/desk/internal/model"
	"github.com/investdesk/desk/internal/validate"
)

// AppVersionFromValues converts validated app-version values. Force-update
// flags are read as booleans ("true", "yes", "1").
func AppVersionFromValues(v validate.Values) model.AppVersion {
	return model.AppVersion{
		LatestVersion:      v.Get("latestVersion"),
		MinimumVersion:     v.Get("minimumVersion"),
		AndroidForceUpdate: truthy(v.Get("androidForceUpdate")),
		IOSForceUpdate:     truthy(v.Get("iosForceUpdate")),
		PlayStoreURL:       v.Get("playStoreUrl"),
		AppStoreURL:        v.Get("appStoreUrl"),
		UpdateMessage:      v.Get("updateMessage"),
	}
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1", "on":
		return true
	}
	return false
}

// CompareVersions compares dotted numeric versions, returning -1, 0 or 1.
func CompareVersions(a, b string) int {
	pa, pb := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < max(len(pa), len(pb)); i++ {
		var x, y int
		if i < len(pa) {
			x, _ = strconv.Atoi(pa[i])
		}
		if i < len(pb) {
			y, _ = strconv.Atoi(pb[i])
		}
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	}
	return 0
}

// MinimumNotAboveLatest rejects a minimum version newer than the latest one.
func MinimumNotAboveLatest(v validate.Values) validate.Errors {
	latest, minimum := v.Get("latestVersion"), v.Get("minimumVersion")
	if latest == "" || minimum == "" {
		return nil
	}
	if CompareVersions(minimum, latest) > 0 {
		return validate.Errors{"minimumVersion": "Minimum version cannot be greater than latest version"}
	}
	return nil
}

// ListAppVersions returns every published app-version policy.
func (s *Service) ListAppVersions(ctx context.Context) ([]model.AppVersion, error) {
	return listAll[model.AppVersion](ctx, s, pathAppVersions, "appVersions")
}

// CreateAppVersion publishes a new app-version policy.
func (s *Service) CreateAppVersion(ctx context.Context, v model.AppVersion) (model.AppVersion, error) {
	var out model.AppVersion
	v.ID = ""
	if err := s.client.Post(ctx, pathAppVersions, v, &out); err != nil {
		return out, err
	}
	s.recordCurrent("create", "app-version", out.ID, v.LatestVersion)
	return out, nil
}

// UpdateAppVersion replaces an app-version policy.
func (s *Service) UpdateAppVersion(ctx context.Context, id string, v model.AppVersion) (model.AppVersion, error) {
	var out model.AppVersion
	if id == "" {
		return out, fmt.Errorf("app version id is required")
	}
	v.ID = ""
	if err := s.client.Put(ctx, pathAppVersions+"/"+id, v, &out); err != nil {
		return out, err
	}
	s.recordCurrent("update", "app-version", id, v.LatestVersion)
	return out, nil
}

// DeleteAppVersion removes an app-version policy.
func (s *Service) DeleteAppVersion(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("app version id is required")
	}
	if err := s.client.Delete(ctx, pathAppVersions+"/"+id, nil); err != nil {
		return err
	}
	s.recordCurrent("delete", "app-version", id, "")
	return nil
}
