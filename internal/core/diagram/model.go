package diagram

import (
	"context"
	"time"
)

// Type は図の種類
type Type string

const (
	TypeMicroservices     Type = "microservices"
	TypeDataPipeline      Type = "data_pipeline"
	TypeCloudArchitecture Type = "cloud_architecture"
	TypeDatabaseSchema    Type = "database_schema"
)

// Types は対応している図の種類を返す
func Types() []Type {
	return []Type{TypeMicroservices, TypeDataPipeline, TypeCloudArchitecture, TypeDatabaseSchema}
}

// ComponentType はコンポーネントの種類タグ
type ComponentType string

const (
	ComponentService      ComponentType = "service"
	ComponentMicroservice ComponentType = "microservice"
	ComponentDatabase     ComponentType = "database"
	ComponentNoSQL        ComponentType = "nosql"
	ComponentQueue        ComponentType = "queue"
	ComponentNotification ComponentType = "notification"
	ComponentAPI          ComponentType = "api"
	ComponentStorage      ComponentType = "storage"
	ComponentCompute      ComponentType = "compute"
	ComponentContainer    ComponentType = "container"
	ComponentLoadBalancer ComponentType = "loadbalancer"
	ComponentAnalytics    ComponentType = "analytics"
	ComponentETL          ComponentType = "etl"
	ComponentStreaming    ComponentType = "streaming"
	ComponentWarehouse    ComponentType = "warehouse"
	ComponentNetwork      ComponentType = "network"
	ComponentCache        ComponentType = "cache"
	ComponentMySQL        ComponentType = "mysql"
)

// Provider はアイコンの提供元
type Provider string

const (
	ProviderAWS        Provider = "aws"
	ProviderAzure      Provider = "azure"
	ProviderGCP        Provider = "gcp"
	ProviderKubernetes Provider = "kubernetes"
	ProviderOnPrem     Provider = "onprem"
)

// ConnectionKind は接続の種類
type ConnectionKind string

const (
	ConnectionArrow         ConnectionKind = "arrow"
	ConnectionBidirectional ConnectionKind = "bidirectional"
	ConnectionDataFlow      ConnectionKind = "data_flow"
	ConnectionAsync         ConnectionKind = "async"
)

// Direction はレイアウト方向
type Direction string

const (
	DirectionTB Direction = "TB"
	DirectionLR Direction = "LR"
	DirectionBT Direction = "BT"
	DirectionRL Direction = "RL"
)

// Horizontal は左右方向のレイアウトかを返す
func (d Direction) Horizontal() bool {
	return d == DirectionLR || d == DirectionRL
}

// Component は図の1ノード
type Component struct {
	Name         string        `json:"name"`
	Type         ComponentType `json:"componentType"`
	Provider     Provider      `json:"iconProvider"`
	IconName     string        `json:"iconName"`
	PositionHint string        `json:"positionHint,omitempty"`
}

// Connection はコンポーネント名で参照する辺
type Connection struct {
	Source string         `json:"source"`
	Target string         `json:"target"`
	Kind   ConnectionKind `json:"connectionType"`
	Label  string         `json:"label,omitempty"`
}

// Cluster はコンポーネントの名前付きグループ
type Cluster struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// Spec は検証済みの図の仕様
type Spec struct {
	Type        Type           `json:"diagramType"`
	Title       string         `json:"title"`
	Components  []Component    `json:"components"`
	Connections []Connection   `json:"connections"`
	Direction   Direction      `json:"layoutDirection"`
	Clusters    []Cluster      `json:"clustering"`
	Styling     map[string]any `json:"styling"`
}

// Placement はスライド上の配置矩形（インチ）
type Placement struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Generated はレンダリング済みの図
// レンダリング成功後にのみ作成される
type Generated struct {
	Spec           Spec          `json:"spec"`
	ImagePath      string        `json:"imagePath"`
	FileSizeKB     int64         `json:"fileSizeKB"`
	GenerationTime time.Duration `json:"generationTime"`
	SlideTarget    int           `json:"slideTarget"`
	Placement      Placement     `json:"placement"`
}

// GenerationResult は図生成ステージの結果
type GenerationResult struct {
	Diagrams            []Generated    `json:"diagrams"`
	SuccessCount        int            `json:"successCount"`
	TotalGenerationTime time.Duration  `json:"totalGenerationTime"`
	Confidence          float64        `json:"confidence"`
	Metadata            map[string]any `json:"metadata"`
}

// Disabled は図生成が設定で無効化されていたかを返す
func (r GenerationResult) Disabled() bool {
	v, _ := r.Metadata["disabled"].(bool)
	return v
}

// Renderer は解決済みの図を画像ファイルとして書き出す
type Renderer interface {
	Render(ctx context.Context, graph Resolved, outputPath string) error
}
