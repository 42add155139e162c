package config

// Loomfile represents the structure of the loom.yaml configuration file.
type Loomfile struct {
	Build   BuildDTO   `yaml:"build"`
	Watch   WatchDTO   `yaml:"watch"`
	Serve   ServeDTO   `yaml:"serve"`
	Proxies []ProxyDTO `yaml:"proxies"`
	Hooks   []HookDTO  `yaml:"hooks"`
}

// BuildDTO configures the document pipeline.
type BuildDTO struct {
	Target    string `yaml:"target"`
	Dist      string `yaml:"dist"`
	PublicURL string `yaml:"public_url"`
	Release   bool   `yaml:"release"`
}

// WatchDTO configures the rebuild driver.
type WatchDTO struct {
	Paths  []string `yaml:"paths"`
	Ignore []string `yaml:"ignore"`
}

// ServeDTO configures the development server.
type ServeDTO struct {
	Port         *int   `yaml:"port"`
	Open         bool   `yaml:"open"`
	NoAutoReload bool   `yaml:"no_autoreload"`
	Metrics      bool   `yaml:"metrics"`
	ProxyBackend string `yaml:"proxy_backend"`
	ProxyRewrite string `yaml:"proxy_rewrite"`
}

// ProxyDTO is one entry of the proxies list.
type ProxyDTO struct {
	Prefix  string `yaml:"prefix"`
	Backend string `yaml:"backend"`
	Rewrite string `yaml:"rewrite"`
}

// HookDTO is one entry of the hooks list.
type HookDTO struct {
	Stage   string   `yaml:"stage"`
	Command []string `yaml:"command"`
}
