package conf

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaultConfig sets the default values for each configuration parameter.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "orgforge")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "logs")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.sessionsecret", "")
	viper.SetDefault("server.accesspassword", "")

	viper.SetDefault("wikidata.endpoint", "https://www.wikidata.org/w/api.php")
	viper.SetDefault("wikidata.language", "fr")
	viper.SetDefault("wikidata.fallbacklanguage", "en")
	viper.SetDefault("wikidata.searchlimit", 12)
	viper.SetDefault("wikidata.timeout", 20*time.Second)
	viper.SetDefault("wikidata.labeltimeout", 10*time.Second)
	viper.SetDefault("wikidata.ratelimitpersec", 2.0)

	viper.SetDefault("registry.endpoint", "https://recherche-entreprises.api.gouv.fr/search")
	viper.SetDefault("registry.pagesize", 10)
	viper.SetDefault("registry.timeout", 15*time.Second)

	viper.SetDefault("mistral.endpoint", "https://api.mistral.ai/v1/chat/completions")
	viper.SetDefault("mistral.apikey", "")
	viper.SetDefault("mistral.model", "mistral-small-latest")
	viper.SetDefault("mistral.temperature", 0.2)
	viper.SetDefault("mistral.timeout", 30*time.Second)

	viper.SetDefault("export.areaserved", "France")
}

// defaultSettings returns a Settings populated with the default values,
// used when writing the initial config file.
func defaultSettings() *Settings {
	return &Settings{
		Debug: false,
		Main: MainSettings{
			Name: "orgforge",
			Log: LogSettings{
				Enabled: true,
				Path:    "logs",
			},
		},
		Server: ServerSettings{
			Host: "0.0.0.0",
			Port: 8090,
		},
		Wikidata: WikidataSettings{
			Endpoint:         "https://www.wikidata.org/w/api.php",
			Language:         "fr",
			FallbackLanguage: "en",
			SearchLimit:      12,
			Timeout:          20 * time.Second,
			LabelTimeout:     10 * time.Second,
			RateLimitPerSec:  2.0,
		},
		Registry: RegistrySettings{
			Endpoint: "https://recherche-entreprises.api.gouv.fr/search",
			PageSize: 10,
			Timeout:  15 * time.Second,
		},
		Mistral: MistralSettings{
			Endpoint:    "https://api.mistral.ai/v1/chat/completions",
			Model:       "mistral-small-latest",
			Temperature: 0.2,
			Timeout:     30 * time.Second,
		},
		Export: ExportSettings{
			AreaServed: "France",
		},
	}
}
