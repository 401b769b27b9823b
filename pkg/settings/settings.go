package settings

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto" // follows the client's system color scheme
)

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark || t == ThemeAuto
}

type Language string

const (
	LanguageRu Language = "ru"
	LanguageEn Language = "en"
)

func (l Language) Valid() bool {
	return l == LanguageRu || l == LanguageEn
}

type Settings struct {
	Theme         Theme    `json:"theme"`
	Language      Language `json:"language"`
	Notifications bool     `json:"notifications"`
	AutoSave      bool     `json:"autoSave"`
}

func Defaults() Settings {
	return Settings{
		Theme:         ThemeLight,
		Language:      LanguageRu,
		Notifications: true,
		AutoSave:      true,
	}
}
