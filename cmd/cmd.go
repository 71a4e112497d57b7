// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// serveCommand starts the catalog session server and the media file server.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the TCP session server and HTTP media server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.IntFlag{
				Name:  "tcp-port",
				Usage: "Override the session listener port",
			},
			&cli.IntFlag{
				Name:  "http-port",
				Usage: "Override the media file server port",
			},
		},
		Action: r.Serve,
	}
}

// adminCommand groups maintenance operations over the catalog snapshot.
func adminCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Maintain accounts, playlists, and song counters",
		Commands: []*cli.Command{
			{
				Name:  "user",
				Usage: "Account maintenance",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "List registered accounts",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "config",
								Aliases: []string{"c"},
								Usage:   "Path to configuration file",
								Value:   "config.toml",
							},
							&cli.BoolFlag{
								Name:  "json",
								Usage: "Output raw JSON",
							},
						},
						Action: r.AdminUserList,
					},
					{
						Name:  "show",
						Usage: "Show one account's profile and playlists",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "username"},
						},
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "config",
								Aliases: []string{"c"},
								Usage:   "Path to configuration file",
								Value:   "config.toml",
							},
						},
						Action: r.AdminUserShow,
					},
					{
						Name:  "create",
						Usage: "Register an account",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "config",
								Aliases: []string{"c"},
								Usage:   "Path to configuration file",
								Value:   "config.toml",
							},
							&cli.StringFlag{
								Name:     "username",
								Aliases:  []string{"u"},
								Required: true,
							},
							&cli.StringFlag{
								Name:     "password",
								Aliases:  []string{"p"},
								Required: true,
							},
							&cli.StringFlag{
								Name:     "email",
								Aliases:  []string{"e"},
								Required: true,
							},
						},
						Action: r.AdminUserCreate,
					},
					{
						Name:  "delete",
						Usage: "Delete an account and its playlists",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "username"},
						},
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "config",
								Aliases: []string{"c"},
								Usage:   "Path to configuration file",
								Value:   "config.toml",
							},
						},
						Action: r.AdminUserDelete,
					},
					{
						Name:  "update",
						Usage: "Update account fields",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "config",
								Aliases: []string{"c"},
								Usage:   "Path to configuration file",
								Value:   "config.toml",
							},
							&cli.StringFlag{
								Name:     "username",
								Aliases:  []string{"u"},
								Required: true,
							},
							&cli.StringFlag{
								Name:  "email",
								Usage: "New email address",
							},
							&cli.StringFlag{
								Name:  "password",
								Usage: "New password",
							},
							&cli.StringFlag{
								Name:  "theme",
								Usage: "New theme",
							},
							&cli.StringFlag{
								Name:  "profile-image",
								Usage: "New profile image path",
							},
						},
						Action: r.AdminUserUpdate,
					},
				},
			},
			{
				Name:  "playlist",
				Usage: "Playlist maintenance",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "List a user's playlists",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "config",
								Aliases: []string{"c"},
								Usage:   "Path to configuration file",
								Value:   "config.toml",
							},
							&cli.StringFlag{
								Name:     "user",
								Aliases:  []string{"u"},
								Required: true,
							},
						},
						Action: r.AdminPlaylistList,
					},
					{
						Name:  "create",
						Usage: "Create a playlist for a user",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "config",
								Aliases: []string{"c"},
								Usage:   "Path to configuration file",
								Value:   "config.toml",
							},
							&cli.StringFlag{
								Name:     "user",
								Aliases:  []string{"u"},
								Required: true,
							},
							&cli.StringFlag{
								Name:     "name",
								Aliases:  []string{"n"},
								Required: true,
							},
							&cli.BoolFlag{
								Name:  "shared",
								Usage: "Make the playlist visible on explore",
							},
						},
						Action: r.AdminPlaylistCreate,
					},
					{
						Name:  "rename",
						Usage: "Rename a playlist",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "config",
								Aliases: []string{"c"},
								Usage:   "Path to configuration file",
								Value:   "config.toml",
							},
							&cli.StringFlag{
								Name:     "user",
								Aliases:  []string{"u"},
								Required: true,
							},
							&cli.StringFlag{
								Name:     "playlist",
								Usage:    "Playlist ID or name",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "name",
								Aliases:  []string{"n"},
								Usage:    "New playlist name",
								Required: true,
							},
						},
						Action: r.AdminPlaylistRename,
					},
					{
						Name:  "delete",
						Usage: "Delete a playlist",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "config",
								Aliases: []string{"c"},
								Usage:   "Path to configuration file",
								Value:   "config.toml",
							},
							&cli.StringFlag{
								Name:     "user",
								Aliases:  []string{"u"},
								Required: true,
							},
							&cli.StringFlag{
								Name:     "playlist",
								Usage:    "Playlist ID or name",
								Required: true,
							},
						},
						Action: r.AdminPlaylistDelete,
					},
					{
						Name:  "add-song",
						Usage: "Add a song to a playlist",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "config",
								Aliases: []string{"c"},
								Usage:   "Path to configuration file",
								Value:   "config.toml",
							},
							&cli.StringFlag{
								Name:     "user",
								Aliases:  []string{"u"},
								Required: true,
							},
							&cli.StringFlag{
								Name:     "playlist",
								Usage:    "Playlist ID or name",
								Required: true,
							},
							&cli.IntFlag{
								Name:     "song",
								Aliases:  []string{"s"},
								Required: true,
							},
						},
						Action: r.AdminPlaylistAddSong,
					},
					{
						Name:  "remove-song",
						Usage: "Remove a song from a playlist",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "config",
								Aliases: []string{"c"},
								Usage:   "Path to configuration file",
								Value:   "config.toml",
							},
							&cli.StringFlag{
								Name:     "user",
								Aliases:  []string{"u"},
								Required: true,
							},
							&cli.StringFlag{
								Name:     "playlist",
								Usage:    "Playlist ID or name",
								Required: true,
							},
							&cli.IntFlag{
								Name:     "song",
								Aliases:  []string{"s"},
								Required: true,
							},
						},
						Action: r.AdminPlaylistRemoveSong,
					},
				},
			},
			{
				Name:  "song",
				Usage: "Song catalog and counter maintenance",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "List catalog songs",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "config",
								Aliases: []string{"c"},
								Usage:   "Path to configuration file",
								Value:   "config.toml",
							},
							&cli.BoolFlag{
								Name:  "json",
								Usage: "Output raw JSON",
							},
						},
						Action: r.AdminSongList,
					},
					{
						Name:  "top",
						Usage: "Show the most liked or most viewed songs",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "config",
								Aliases: []string{"c"},
								Usage:   "Path to configuration file",
								Value:   "config.toml",
							},
							&cli.StringFlag{
								Name:  "by",
								Usage: "Counter to rank by (likes or views)",
								Value: "likes",
							},
							&cli.IntFlag{
								Name:    "limit",
								Aliases: []string{"n"},
								Usage:   "Number of songs to show",
								Value:   10,
							},
						},
						Action: r.AdminSongTop,
					},
					{
						Name:  "set-counter",
						Usage: "Override a song's like or view counter",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "config",
								Aliases: []string{"c"},
								Usage:   "Path to configuration file",
								Value:   "config.toml",
							},
							&cli.IntFlag{
								Name:     "song",
								Aliases:  []string{"s"},
								Required: true,
							},
							&cli.StringFlag{
								Name:     "kind",
								Usage:    "Counter kind (likes or views)",
								Required: true,
							},
							&cli.IntFlag{
								Name:     "value",
								Aliases:  []string{"v"},
								Required: true,
							},
						},
						Action: r.AdminSongSetCounter,
					},
					{
						Name:  "presence",
						Usage: "Show which playlists reference a song",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "song"},
						},
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "config",
								Aliases: []string{"c"},
								Usage:   "Path to configuration file",
								Value:   "config.toml",
							},
						},
						Action: r.AdminSongPresence,
					},
				},
			},
		},
	}
}

// reportCommand handles export operations
func reportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Generate catalog reports",
		Commands: []*cli.Command{
			{
				Name:  "users",
				Usage: "Export an account summary as CSV",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default stdout)",
					},
				},
				Action: r.ReportUsers,
			},
			{
				Name:  "top",
				Usage: "Export top songs as CSV",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.StringFlag{
						Name:  "by",
						Usage: "Counter to rank by (likes or views)",
						Value: "likes",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Number of songs to export",
						Value:   10,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default stdout)",
					},
				},
				Action: r.ReportTop,
			},
			{
				Name:      "export",
				Usage:     "Export user playlists with a worker pool",
				ArgsUsage: "[usernames...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (markdown or txt)",
						Value:   "markdown",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent export workers",
						Value: 5,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Maximum user exports per second",
						Value: 10,
					},
				},
				Action: r.ReportExport,
			},
		},
	}
}

// browseCommand returns the top-level TUI command for read-only catalog browsing.
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "browse",
		Aliases: []string{"tui"},
		Usage:   "Browse accounts and playlists interactively",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Browse,
	}
}
