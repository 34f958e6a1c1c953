package models

// Setting keys stored in app_settings
const (
	SettingTestMode          = "test_mode"
	SettingPhotoLimit        = "photo_limit"
	SettingHomeState         = "home_state"
	SettingHomeCountry       = "home_country"
	SettingHomePolicy        = "home_policy"
	SettingPhotosLibraryPath = "photos_library_path"
)

// Settings is the process-wide user configuration read at the start of each run.
type Settings struct {
	TestMode          bool   `json:"test_mode"`
	PhotoLimit        int    `json:"photo_limit"`
	HomeState         string `json:"home_state"`
	HomeCountry       string `json:"home_country"`
	HomePolicy        string `json:"home_policy"`
	PhotosLibraryPath string `json:"photos_library_path,omitempty"`
}

// SettingsUpdate carries a partial settings change; nil fields are left alone.
type SettingsUpdate struct {
	TestMode          *bool   `json:"test_mode"`
	PhotoLimit        *int    `json:"photo_limit"`
	HomeState         *string `json:"home_state"`
	HomeCountry       *string `json:"home_country"`
	HomePolicy        *string `json:"home_policy"`
	PhotosLibraryPath *string `json:"photos_library_path"`
}

// AffectsConsolidation reports whether applying the update changes stay grouping.
func (u SettingsUpdate) AffectsConsolidation() bool {
	return u.HomeState != nil || u.HomeCountry != nil || u.HomePolicy != nil
}
