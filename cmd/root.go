package cmd

import (
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "talentscout"
)

type Config struct {
	AI      *AIConfig      `mapstructure:"ai"`
	Storage *StorageConfig `mapstructure:"storage"`
	Phone   *PhoneConfig   `mapstructure:"phone"`
}

type AIConfig struct {
	Provider      string  `mapstructure:"provider"`
	Temperature   float32 `mapstructure:"temperature"`
	TopP          float32 `mapstructure:"top-p"`
	MaxTokens     int32   `mapstructure:"max-tokens"`
	HistoryWindow int     `mapstructure:"history-window"`

	Groq   *ProviderConfig `mapstructure:"groq"`
	Gemini *ProviderConfig `mapstructure:"gemini"`
}

type ProviderConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

type PhoneConfig struct {
	DefaultRegion string `mapstructure:"default-region"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "talentscout is a conversational hiring assistant that screens technology candidates over chat",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Credentials may live in a local .env file, as the original
	// deployment expected.
	_ = godotenv.Load()

	if err := viper.BindEnv("ai.groq.api-key-file", "GROQ_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GROQ_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is talentscout.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults()
}

func setDefaults() {
	viper.SetDefault("ai.provider", "groq")
	viper.SetDefault("ai.temperature", 0.4)
	viper.SetDefault("ai.top-p", 0.9)
	viper.SetDefault("ai.max-tokens", 250)
	viper.SetDefault("ai.history-window", 12)
	viper.SetDefault("ai.groq.model", "llama-3.3-70b-versatile")
	viper.SetDefault("ai.groq.max-retries", 1)
	viper.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	viper.SetDefault("ai.gemini.max-retries", 3)
	viper.SetDefault("storage.backend", "csv")
	viper.SetDefault("storage.path", "candidates.csv")
	viper.SetDefault("phone.default-region", "US")
}

func initConfig() {
	// Config is needed only for the run command.
	if runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Every setting has a default, so a missing file is fine; a file that
	// exists but does not parse is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
