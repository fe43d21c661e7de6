// Package routes builds paths of the web UI pages.
package routes

import (
	"net/url"
	"strconv"
	"strings"
)

// FormResultsPagePath is the page listing responses of a form block.
func FormResultsPagePath(botID, formBlockID string) string {
	return "/forms/" + url.PathEscape(botID) + "/" + url.PathEscape(formBlockID)
}

// StudioPath is the flow editor of a bot, optionally pinned to a stored version.
func StudioPath(botID string, version *int) string {
	path := "/studio/" + url.PathEscape(botID)
	if version != nil {
		path += "?version=" + strconv.Itoa(*version)
	}
	return path
}

// DashboardPath is the dashboard, scrolled to botID when it is non-empty.
func DashboardPath(botID string) string {
	if botID == "" {
		return "/"
	}
	return "/#" + botID
}

// UIBase derives the web UI root from the API root by dropping a trailing "/api".
func UIBase(apiURL string) string {
	base := strings.TrimRight(apiURL, "/")
	return strings.TrimSuffix(base, "/api")
}

// Absolute joins a UI root and a path built by this package.
func Absolute(uiBase, path string) string {
	return strings.TrimRight(uiBase, "/") + path
}
