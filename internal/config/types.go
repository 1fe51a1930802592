package config

// Config is the top-level pagehydrate configuration, corresponding to .pagehydrate.yml.
type Config struct {
	SiteDir       string        `yaml:"site_dir" koanf:"site_dir"`
	OutputDir     string        `yaml:"output_dir" koanf:"output_dir"`
	ContentSource string        `yaml:"content_source" koanf:"content_source"`
	Include       []string      `yaml:"include" koanf:"include"`
	Exclude       []string      `yaml:"exclude" koanf:"exclude"`
	LogLevel      string        `yaml:"log_level" koanf:"log_level"`
	Markers       MarkersConfig `yaml:"markers" koanf:"markers"`
	Menu          MenuConfig    `yaml:"menu" koanf:"menu"`
	Server        ServerConfig  `yaml:"server" koanf:"server"`
}

// MarkersConfig names the marker attributes pages are authored with.
type MarkersConfig struct {
	Text     string `yaml:"text" koanf:"text"`
	HTML     string `yaml:"html" koanf:"html"`
	Href     string `yaml:"href" koanf:"href"`
	Style    string `yaml:"style" koanf:"style"`
	Image    string `yaml:"image" koanf:"image"`
	Markdown string `yaml:"markdown" koanf:"markdown"`
	List     string `yaml:"list" koanf:"list"`
}

// MenuConfig identifies the mobile menu elements.
type MenuConfig struct {
	MenuID    string `yaml:"menu_id" koanf:"menu_id"`
	ButtonID  string `yaml:"button_id" koanf:"button_id"`
	LinkClass string `yaml:"link_class" koanf:"link_class"`
	OpenClass string `yaml:"open_class" koanf:"open_class"`
}

// ServerConfig holds settings for `pagehydrate serve`.
type ServerConfig struct {
	Port       int  `yaml:"port" koanf:"port"`
	AllowAll   bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	LiveReload bool `yaml:"live_reload" koanf:"live_reload"`
}
