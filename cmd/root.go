package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/resume-matcher/internal/matching"
	"github.com/spigell/resume-matcher/internal/records"
	"github.com/spigell/resume-matcher/internal/report"
	"github.com/spigell/resume-matcher/internal/skills"
)

const (
	app = "resume-matcher"

	defaultCandidatesDir = "candidates"
	defaultWorkers       = 4
	defaultTopN          = 5
)

type Config struct {
	CandidatesDir string          `mapstructure:"candidates-dir"`
	ExcludeFile   string          `mapstructure:"exclude-file"`
	Workers       int             `mapstructure:"workers"`
	Jobs          []*matching.Job `mapstructure:"jobs"`
	Matching      MatchingConfig  `mapstructure:"matching"`
	Report        ReportConfig    `mapstructure:"report"`
	AI            AIConfig        `mapstructure:"ai"`
}

type MatchingConfig struct {
	matching.Config `mapstructure:",squash"`
	SkillGroups     [][]string `mapstructure:"skill-groups"`
}

type ReportConfig struct {
	Dir     string   `mapstructure:"dir"`
	Formats []string `mapstructure:"formats"`
	TopN    int      `mapstructure:"top-n"`
}

type AIConfig struct {
	Enabled  bool         `mapstructure:"enabled"`
	Provider string       `mapstructure:"provider"`
	Gemini   GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string        `mapstructure:"api-key" json:"-"`
	APIKeyFile   string        `mapstructure:"api-key-file"`
	Model        string        `mapstructure:"model"`
	MaxRetries   int           `mapstructure:"max-retries"`
	RetryDelay   time.Duration `mapstructure:"retry-delay"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxTokens    int           `mapstructure:"max-tokens"`
	Temperature  float64       `mapstructure:"temperature"`
	MaxLogLength int           `mapstructure:"max-log-length"`
}

func defaultConfig() *Config {
	return &Config{
		CandidatesDir: defaultCandidatesDir,
		Workers:       defaultWorkers,
		Matching:      MatchingConfig{Config: matching.DefaultConfig()},
		Report: ReportConfig{
			Dir:     "reports",
			Formats: []string{report.FormatJSON},
			TopN:    defaultTopN,
		},
		AI: AIConfig{
			Provider: "gemini",
			Gemini: GeminiConfig{
				Model:      "gemini-2.5-flash",
				MaxRetries: 3,
				RetryDelay: time.Second,
				Timeout:    30 * time.Second,
			},
		},
	}
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-matcher scores candidate resumes against job postings and explains the result",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	for key, env := range map[string]string{
		"candidates-dir":         "RESUME_MATCHER_CANDIDATES_DIR",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	// Keys bound to command flags need viper defaults, otherwise the zero
	// flag defaults win over the config defaults.
	viper.SetDefault("candidates-dir", defaultCandidatesDir)
	viper.SetDefault("workers", defaultWorkers)
	viper.SetDefault("report.top-n", defaultTopN)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// A missing .env is fine, it only seeds the environment.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The built-in jobs and defaults are enough to run without a config file,
	// but a file that was asked for or fails to parse is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	config := defaultConfig()

	err := viper.Unmarshal(config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, err
	}

	if len(config.Jobs) == 0 {
		config.Jobs = records.SampleJobs()
	}

	for i, job := range config.Jobs {
		if err := matching.ValidateJob(job); err != nil {
			if job == nil {
				return nil, fmt.Errorf("job #%d: %w", i, err)
			}
			return nil, fmt.Errorf("job %q: %w", job.Title, err)
		}
	}

	for i, format := range config.Report.Formats {
		config.Report.Formats[i] = strings.ToLower(strings.TrimSpace(format))
	}

	if config.Workers <= 0 {
		config.Workers = 1
	}

	return config, nil
}

// skillGroups returns the configured equivalence table or nil for the default one.
func (c *Config) skillGroups() *skills.Groups {
	if len(c.Matching.SkillGroups) == 0 {
		return nil
	}
	return skills.NewGroups(c.Matching.SkillGroups)
}
