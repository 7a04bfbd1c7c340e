package consent

// ShouldBeVisible resolves the consent banner visibility. On the preferences
// page the banner is hidden when visibleOnPreferencesPage is false; otherwise
// it is shown exactly while there is no valid consent record.
func ShouldBeVisible(rec Record, onPreferencesPage, visibleOnPreferencesPage bool) bool {
	if onPreferencesPage && !visibleOnPreferencesPage {
		return false
	}
	return !rec.Valid()
}
