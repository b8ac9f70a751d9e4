package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle            = "app_title"
	KeyMenu                = "menu"
	KeyHome                = "home"
	KeyInbox               = "inbox"
	KeyArchive             = "archive"
	KeyShowSheet           = "show_sheet"
	KeySheetTitle          = "sheet_title"
	KeySheetBody           = "sheet_body"
	KeyClose               = "close"
	KeyKeepOpen            = "keep_open"
	KeyDrawerPinned        = "drawer_pinned"
	KeyStatus              = "status"
	KeySettings            = "settings"
	KeyFile                = "file"
	KeyLanguage            = "language"
	KeySave                = "save"
	KeyCancel              = "cancel"
	KeySettingsSaved       = "settings_saved"
	KeyVelocityThreshold   = "velocity_threshold"
	KeyAnimationMillis     = "animation_ms"
	KeyPositionalThreshold = "positional_threshold"
	KeyDrawerMaxWidth      = "drawer_max_width"
	KeySheetHeight         = "sheet_height"
	KeyScrimAlpha          = "scrim_alpha"
	KeyInvalidNumber       = "invalid_number"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:            "Anchor Swipe",
		KeyMenu:                "Menu",
		KeyHome:                "Home",
		KeyInbox:               "Inbox",
		KeyArchive:             "Archive",
		KeyShowSheet:           "Details",
		KeySheetTitle:          "Details",
		KeySheetBody:           "Drag the sheet down or tap outside it to close.",
		KeyClose:               "Close",
		KeyKeepOpen:            "Keep drawer open",
		KeyDrawerPinned:        "The drawer is pinned open",
		KeyStatus:              "Drawer: %s · Sheet: %s",
		KeySettings:            "Settings",
		KeyFile:                "File",
		KeyLanguage:            "Language",
		KeySave:                "Save",
		KeyCancel:              "Cancel",
		KeySettingsSaved:       "Settings saved successfully!",
		KeyVelocityThreshold:   "Fling velocity (dp/s)",
		KeyAnimationMillis:     "Animation (ms)",
		KeyPositionalThreshold: "Positional threshold (0-1)",
		KeyDrawerMaxWidth:      "Drawer max width",
		KeySheetHeight:         "Sheet height (0-1)",
		KeyScrimAlpha:          "Scrim opacity (0-1)",
		KeyInvalidNumber:       "Invalid number",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:            "Anchor Swipe",
		KeyMenu:                "Меню",
		KeyHome:                "Главная",
		KeyInbox:               "Входящие",
		KeyArchive:             "Архив",
		KeyShowSheet:           "Подробнее",
		KeySheetTitle:          "Подробнее",
		KeySheetBody:           "Потяните панель вниз или коснитесь вне её, чтобы закрыть.",
		KeyClose:               "Закрыть",
		KeyKeepOpen:            "Не закрывать меню",
		KeyDrawerPinned:        "Меню закреплено",
		KeyStatus:              "Меню: %s · Панель: %s",
		KeySettings:            "Настройки",
		KeyFile:                "Файл",
		KeyLanguage:            "Язык",
		KeySave:                "Сохранить",
		KeyCancel:              "Отмена",
		KeySettingsSaved:       "Настройки успешно сохранены!",
		KeyVelocityThreshold:   "Скорость броска (dp/с)",
		KeyAnimationMillis:     "Анимация (мс)",
		KeyPositionalThreshold: "Порог положения (0-1)",
		KeyDrawerMaxWidth:      "Макс. ширина меню",
		KeySheetHeight:         "Высота панели (0-1)",
		KeyScrimAlpha:          "Затемнение (0-1)",
		KeyInvalidNumber:       "Неверное число",
	}

	l.texts["pt"] = map[string]string{
		KeyAppTitle:            "Anchor Swipe",
		KeyMenu:                "Menu",
		KeyHome:                "Início",
		KeyInbox:               "Caixa de entrada",
		KeyArchive:             "Arquivo",
		KeyShowSheet:           "Detalhes",
		KeySheetTitle:          "Detalhes",
		KeySheetBody:           "Arraste o painel para baixo ou toque fora dele para fechar.",
		KeyClose:               "Fechar",
		KeyKeepOpen:            "Manter menu aberto",
		KeyDrawerPinned:        "O menu está fixado",
		KeyStatus:              "Menu: %s · Painel: %s",
		KeySettings:            "Configurações",
		KeyFile:                "Arquivo",
		KeyLanguage:            "Idioma",
		KeySave:                "Salvar",
		KeyCancel:              "Cancelar",
		KeySettingsSaved:       "Configurações salvas com sucesso!",
		KeyVelocityThreshold:   "Velocidade de arremesso (dp/s)",
		KeyAnimationMillis:     "Animação (ms)",
		KeyPositionalThreshold: "Limiar de posição (0-1)",
		KeyDrawerMaxWidth:      "Largura máx. do menu",
		KeySheetHeight:         "Altura do painel (0-1)",
		KeyScrimAlpha:          "Opacidade do fundo (0-1)",
		KeyInvalidNumber:       "Número inválido",
	}
}
