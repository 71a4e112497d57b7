// Package ui implements the read-only terminal browser for the catalog:
// accounts, their playlists, and playlist contents, as stacked list views.
package ui
