package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定を保持します
type Config struct {
	// LLM設定
	LLM LLMConfig

	// アップロードファイルの制約
	Files FileConfig

	// スライド生成設定
	Slides SlideConfig

	// 図生成設定
	Diagram DiagramConfig

	// ブランドカラー
	Brand BrandConfig

	// テンプレート設定
	TemplateDir     string
	DefaultTemplate string

	// 生成物の出力先
	OutputDir string

	// ログ設定
	LogLevel  string
	LogFormat string

	// Database設定（生成履歴の保存用、未設定なら無効）
	Database DatabaseConfig

	// オブジェクトストレージ設定（生成物のアップロード用、未設定なら無効）
	Storage StorageConfig
}

// LLMConfig はLLMプロバイダの設定
type LLMConfig struct {
	Provider          string // "openai", "gemini" or "fake"
	OpenAIAPIKey      string
	OpenAIModel       string
	GeminiAPIKey      string
	GeminiModel       string
	Temperature       float64
	MaxTokens         int
	Timeout           time.Duration // 0 はタイムアウトなし
	RequestsPerMinute int
	CacheSize         int    // 0 はキャッシュ無効
	ErrorLogPath      string // 空ならエラーログを書き出さない
}

// FileConfig はアップロードファイルの制約
type FileConfig struct {
	MaxFiles      int
	MaxFileSizeMB int
	AllowedTypes  []string
}

// SlideConfig はスライド枚数の設定
type SlideConfig struct {
	Min    int
	Max    int
	Target int
}

// DiagramConfig は図生成の設定
type DiagramConfig struct {
	Enabled       bool
	OutputDir     string
	Renderer      string // "native" or "graphviz"
	MaxComponents int
	DPI           int
	Style         string
	StyleFile     string        // YAMLのスタイルテンプレート（任意）
	RenderTimeout time.Duration // 0 はタイムアウトなし
	MaxAgeHours   int
}

// BrandConfig はブランドカラー
type BrandConfig struct {
	PrimaryColor   string
	SecondaryColor string
	AccentColor    string
}

// DatabaseConfig はデータベース接続設定
type DatabaseConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Enabled はDB接続情報が設定されているかを返します
func (d DatabaseConfig) Enabled() bool {
	return d.URL != "" || d.Host != ""
}

// ConnString はpgx向けの接続文字列を返します
func (d DatabaseConfig) ConnString() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// StorageConfig はS3互換ストレージの設定
type StorageConfig struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled はストレージが設定されているかを返します
func (s StorageConfig) Enabled() bool {
	return s.Endpoint != "" && s.Bucket != ""
}

// MaxFileSizeBytes はファイルサイズ上限をバイトで返します
func (f FileConfig) MaxFileSizeBytes() int64 {
	return int64(f.MaxFileSizeMB) * 1024 * 1024
}

// IsAllowed は拡張子が許可されているかを返します
func (f FileConfig) IsAllowed(ext string) bool {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	for _, allowed := range f.AllowedTypes {
		if ext == allowed {
			return true
		}
	}
	return false
}

// DefaultTemplatePath はデフォルトテンプレートのパスを返します
func (c *Config) DefaultTemplatePath() string {
	return strings.TrimRight(c.TemplateDir, "/") + "/" + c.DefaultTemplate
}

// Load は環境変数または.envファイルから設定を読み込みます
func Load(envFilePath string) (*Config, error) {
	// .envファイルが存在する場合は読み込む
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			// ファイルが存在しない場合はエラーとしない（環境変数のみで動作可能）
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load .env file: %w", err)
			}
		}
	}

	cfg := &Config{
		LLM: LLMConfig{
			Provider:          getEnv("LLM_PROVIDER", "openai"),
			OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
			GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			Temperature:       getEnvAsFloat("LLM_TEMPERATURE", 0.3),
			MaxTokens:         getEnvAsInt("LLM_MAX_TOKENS", 4000),
			Timeout:           getEnvAsDuration("LLM_TIMEOUT", 0),
			RequestsPerMinute: getEnvAsInt("LLM_REQUESTS_PER_MINUTE", 60),
			CacheSize:         getEnvAsInt("LLM_CACHE_SIZE", 128),
			ErrorLogPath:      getEnv("LLM_ERROR_LOG", ""),
		},
		Files: FileConfig{
			MaxFiles:      getEnvAsInt("MAX_FILES", 5),
			MaxFileSizeMB: getEnvAsInt("MAX_FILE_SIZE_MB", 10),
			AllowedTypes:  getEnvAsList("ALLOWED_FILE_TYPES", []string{"pptx", "pdf"}),
		},
		Slides: SlideConfig{
			Min:    getEnvAsInt("MIN_SLIDES", 3),
			Max:    getEnvAsInt("MAX_SLIDES", 15),
			Target: getEnvAsInt("TARGET_SLIDE_COUNT", 8),
		},
		Diagram: DiagramConfig{
			Enabled:       getEnvAsBool("ENABLE_DIAGRAM_GENERATION", true),
			OutputDir:     getEnv("DIAGRAM_OUTPUT_DIR", "./data/diagrams"),
			Renderer:      getEnv("DIAGRAM_RENDERER", "native"),
			MaxComponents: getEnvAsInt("MAX_DIAGRAM_COMPONENTS", 15),
			DPI:           getEnvAsInt("DIAGRAM_DPI", 300),
			Style:         getEnv("DIAGRAM_STYLE", "keyrus_brand"),
			StyleFile:     getEnv("DIAGRAM_STYLE_FILE", ""),
			RenderTimeout: getEnvAsDuration("RENDER_TIMEOUT", 0),
			MaxAgeHours:   getEnvAsInt("DIAGRAM_MAX_AGE_HOURS", 24),
		},
		Brand: BrandConfig{
			PrimaryColor:   getEnv("BRAND_PRIMARY_COLOR", "#0066CC"),
			SecondaryColor: getEnv("BRAND_SECONDARY_COLOR", "#333333"),
			AccentColor:    getEnv("BRAND_ACCENT_COLOR", "#FFFFFF"),
		},
		TemplateDir:     getEnv("TEMPLATE_DIR", "./templates"),
		DefaultTemplate: getEnv("DEFAULT_TEMPLATE", "Keyrus Commercial - Template.pptx"),
		OutputDir:       getEnv("OUTPUT_DIR", "./data/generated"),
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "pptassistant"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "pptassistant"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Storage: StorageConfig{
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			Region:    getEnv("S3_REGION", "us-east-1"),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
			Bucket:    getEnv("S3_BUCKET", ""),
			UseSSL:    getEnvAsBool("S3_USE_SSL", false),
		},
	}

	if cfg.Slides.Min > cfg.Slides.Max {
		return nil, fmt.Errorf("MIN_SLIDES (%d) must not exceed MAX_SLIDES (%d)", cfg.Slides.Min, cfg.Slides.Max)
	}

	return cfg, nil
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt は環境変数を整数として取得します
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsFloat は環境変数を浮動小数点数として取得します
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool は環境変数を真偽値として取得します
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration は環境変数を時間として取得します
// "90s" のような形式に加え、単位なしの数値は秒として扱う
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if seconds, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(seconds) * time.Second
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList はカンマ区切りの環境変数をリストとして取得します
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
