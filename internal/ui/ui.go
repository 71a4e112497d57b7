package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tunegrid/tunegrid/internal/catalog"
)

// ViewState represents the current view in the browser.
type ViewState int

const (
	UserListView ViewState = iota
	PlaylistListView
	SongListView
)

// Model represents the browser state.
type Model struct {
	store        *catalog.Store
	view         ViewState
	width        int
	height       int
	userList     list.Model
	playlistList list.Model
	songList     list.Model
	username     string
	err          error
	help         help.Model
	keys         keyMap
}

// keyMap defines the key bindings for the browser.
type keyMap struct {
	enter key.Binding
	back  key.Binding
	quit  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.enter, k.back, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.enter, k.back, k.quit}}
}

// NewModel creates the browser over store.
func NewModel(store *catalog.Store) Model {
	items := []list.Item{}
	for _, summary := range store.UserSummaries() {
		items = append(items, userItem{summary: summary})
	}

	userList := list.New(items, list.NewDefaultDelegate(), 0, 0)
	userList.Title = "Accounts"

	return Model{
		store:    store,
		view:     UserListView,
		userList: userList,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init implements [tea.Model].
func (m Model) Init() tea.Cmd { return nil }

// Update implements [tea.Model].
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.userList.SetSize(msg.Width, msg.Height-2)
		m.playlistList.SetSize(msg.Width, msg.Height-2)
		m.songList.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.back):
			switch m.view {
			case SongListView:
				m.view = PlaylistListView
			case PlaylistListView:
				m.view = UserListView
			}
			return m, nil
		case key.Matches(msg, m.keys.enter):
			return m.open()
		}
	}

	var cmd tea.Cmd
	switch m.view {
	case UserListView:
		m.userList, cmd = m.userList.Update(msg)
	case PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case SongListView:
		m.songList, cmd = m.songList.Update(msg)
	}
	return m, cmd
}

// open descends into the selected item.
func (m Model) open() (tea.Model, tea.Cmd) {
	switch m.view {
	case UserListView:
		item, ok := m.userList.SelectedItem().(userItem)
		if !ok {
			return m, nil
		}
		m.username = item.summary.Username

		playlists, err := m.store.PlaylistsOf(m.username)
		if err != nil {
			m.err = err
			return m, nil
		}

		items := []list.Item{}
		for _, playlist := range playlists {
			items = append(items, playlistItem{playlist: playlist})
		}
		m.playlistList = list.New(items, list.NewDefaultDelegate(), m.width, m.height-2)
		m.playlistList.Title = fmt.Sprintf("Playlists of %s", m.username)
		m.view = PlaylistListView

	case PlaylistListView:
		item, ok := m.playlistList.SelectedItem().(playlistItem)
		if !ok {
			return m, nil
		}

		items := []list.Item{}
		for _, songID := range item.playlist.Songs {
			song, resolved := m.store.FindSong(songID)
			items = append(items, songItem{id: songID, song: song, resolved: resolved})
		}
		m.songList = list.New(items, list.NewDefaultDelegate(), m.width, m.height-2)
		m.songList.Title = item.playlist.Name
		m.view = SongListView
	}

	return m, nil
}

// View implements [tea.Model].
func (m Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("error: %v", m.err)) + "\n" + m.help.View(m.keys)
	}

	var body string
	switch m.view {
	case PlaylistListView:
		body = m.playlistList.View()
	case SongListView:
		body = m.songList.View()
	default:
		body = m.userList.View()
	}
	return body + "\n" + m.help.View(m.keys)
}
