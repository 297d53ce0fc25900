package config

const (
	defaultConfigPath      = "~/.config/shelf/config.toml"
	defaultDataDir         = "~/.local/share/shelf"
	defaultLogDir          = "~/.local/share/shelf/logs"
	defaultStateDBName     = "state.db"
	defaultDocumentName    = "contents.json"
	defaultStorageBackend  = BackendFile
	defaultGistBaseURL     = "https://api.github.com"
	defaultGistFile        = "contents.json"
	defaultTMDBLanguage    = "ru-RU"
	defaultTMDBBaseURL     = "https://api.themoviedb.org/3"
	defaultTMDBImageBase   = "https://image.tmdb.org/t/p/w342"
	defaultTMDBResultLimit = 8
	defaultCollation       = "ru"
	defaultUndoTTLSeconds  = 10
	defaultLogFormat       = "console"
	defaultLogLevel        = "warn"
)

// Storage backends.
const (
	BackendFile = "file"
	BackendGist = "gist"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Storage: Storage{
			Backend:     defaultStorageBackend,
			GistBaseURL: defaultGistBaseURL,
			GistFile:    defaultGistFile,
		},
		TMDB: TMDB{
			BaseURL:      defaultTMDBBaseURL,
			Language:     defaultTMDBLanguage,
			ImageBaseURL: defaultTMDBImageBase,
			ResultLimit:  defaultTMDBResultLimit,
		},
		Library: Library{
			DefaultSections: []string{"Фильмы", "Сериалы", "Аниме"},
			Collation:       defaultCollation,
		},
		Undo: Undo{
			TTLSeconds: defaultUndoTTLSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
