package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Env string `yaml:"env" env:"APP_ENV" env-default:"local"`

	DashScope struct {
		ApiKey         string `yaml:"api_key" env:"DASHSCOPE_API_KEY" env-default:""`
		BaseURL        string `yaml:"base_url" env:"DASHSCOPE_BASE_URL" env-default:"https://dashscope-intl.aliyuncs.com/api/v1"`
		Model          string `yaml:"model" env-default:"qwen-image-edit-plus"`
		Variants       int    `yaml:"variants" env-default:"2"`
		Watermark      bool   `yaml:"watermark" env-default:"false"`
		PromptExtend   bool   `yaml:"prompt_extend" env-default:"true"`
		NegativePrompt string `yaml:"negative_prompt" env-default:" "`
		TempImage      string `yaml:"temp_image" env-default:"temp_image.png"`
	} `yaml:"dashscope"`

	Gemini struct {
		ApiKey     string `yaml:"api_key" env:"GEMINI_API_KEY" env-default:""`
		BaseURL    string `yaml:"base_url" env:"GEMINI_BASE_URL" env-default:""`
		Model      string `yaml:"model" env-default:"gemini-2.5-flash"`
		ImageModel string `yaml:"image_model" env-default:"gemini-2.5-flash-image"`
	} `yaml:"gemini"`

	Local struct {
		ModelPath    string `yaml:"model_path" env:"QWEN_MODEL_PATH" env-default:"models/Qwen-Image-Edit-2509-4bit"`
		VisionRunner string `yaml:"vision_runner" env:"QWEN_VISION_RUNNER" env-default:"qwen-vl-cli"`
		PipeRunner   string `yaml:"pipeline_runner" env:"QWEN_PIPELINE_RUNNER" env-default:"qwen-image-edit-cli"`
		MaxNewTokens int    `yaml:"max_new_tokens" env-default:"1024"`
	} `yaml:"local"`

	Reddit struct {
		Subreddit string `yaml:"subreddit" env-default:"PhotoshopRequest"`
		Limit     int    `yaml:"limit" env-default:"10"`
		UserAgent string `yaml:"user_agent" env-default:"vixtral-bot:1.0.0"`
		PollEvery string `yaml:"poll_every" env-default:"10m"`
	} `yaml:"reddit"`

	Redis struct {
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		Addr     string `yaml:"addr" env-default:"127.0.0.1:6379"`
		Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
		DB       int    `yaml:"db" env-default:"0"`
	} `yaml:"redis"`

	Telegram struct {
		ApiKey       string `yaml:"api_key" env:"TELEGRAM_API_KEY" env-default:""`
		Username     string `yaml:"username" env-default:""`
		NotifyChatId int64  `yaml:"notify_chat_id" env-default:"0"`
	} `yaml:"telegram"`

	Provider string `yaml:"provider" env:"EDIT_PROVIDER" env-default:"dashscope"`

	Mongo struct {
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		Host     string `yaml:"host" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env-default:"27017"`
		User     string `yaml:"user" env-default:"admin"`
		Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:"pass"`
		Database string `yaml:"database" env-default:"vixtral"`
	} `yaml:"mongo"`
}

var instance *Config
var once sync.Once

// MustLoad returns the process-wide config and exits when it can't be read.
func MustLoad(path string) *Config {
	conf, err := GetConfig(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return conf
}

func GetConfig(path string) (*Config, error) {
	var err error
	once.Do(func() {
		instance, err = Load(path)
	})
	return instance, err
}

// Load reads .env.local, then the yaml file at path. A missing file is not an
// error: values come from the environment and defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(".env.local")

	conf := &Config{}
	var err error
	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		err = cleanenv.ReadConfig(path, conf)
	case errors.Is(statErr, fs.ErrNotExist):
		err = cleanenv.ReadEnv(conf)
	default:
		return nil, fmt.Errorf("config: %w", statErr)
	}
	if err != nil {
		desc, _ := cleanenv.GetDescription(conf, nil)
		return nil, fmt.Errorf("config: %s; %s", err, desc)
	}
	return conf, nil
}
