package diagram

import (
	"sort"
	"strings"
)

// Icon はコンポーネントに割り当てるアイコン
type Icon struct {
	Provider Provider `json:"provider"`
	Group    string   `json:"group"` // compute, database, network など
	Name     string   `json:"name"`
}

// ID は "aws.compute.Lambda" 形式の識別子を返す
func (i Icon) ID() string {
	return string(i.Provider) + "." + i.Group + "." + i.Name
}

// DefaultIcon はプロバイダが不明な場合に使うアイコン
var DefaultIcon = Icon{Provider: ProviderAWS, Group: "compute", Name: "Lambda"}

// IconCatalog はプロバイダごとのコンポーネント種別とアイコンの対応表
type IconCatalog struct {
	tables map[Provider]map[string]Icon
}

// NewIconCatalog は組み込みのアイコン表を持つカタログを作成します
func NewIconCatalog() *IconCatalog {
	aws := func(group, name string) Icon { return Icon{Provider: ProviderAWS, Group: group, Name: name} }
	azure := func(group, name string) Icon { return Icon{Provider: ProviderAzure, Group: group, Name: name} }
	gcp := func(group, name string) Icon { return Icon{Provider: ProviderGCP, Group: group, Name: name} }
	k8s := func(group, name string) Icon { return Icon{Provider: ProviderKubernetes, Group: group, Name: name} }
	onprem := func(group, name string) Icon { return Icon{Provider: ProviderOnPrem, Group: group, Name: name} }

	return &IconCatalog{tables: map[Provider]map[string]Icon{
		ProviderAWS: {
			"api":          aws("network", "APIGateway"),
			"service":      aws("compute", "Lambda"),
			"microservice": aws("compute", "Lambda"),
			"database":     aws("database", "RDS"),
			"nosql":        aws("database", "Dynamodb"),
			"queue":        aws("integration", "SQS"),
			"notification": aws("integration", "SNS"),
			"storage":      aws("storage", "S3"),
			"compute":      aws("compute", "EC2"),
			"container":    aws("compute", "ECS"),
			"loadbalancer": aws("network", "ElasticLoadBalancing"),
			"analytics":    aws("analytics", "EMR"),
			"etl":          aws("analytics", "Glue"),
			"streaming":    aws("analytics", "Kinesis"),
			"warehouse":    aws("analytics", "Redshift"),
		},
		ProviderAzure: {
			"api":          azure("network", "ApplicationGateway"),
			"service":      azure("compute", "FunctionApps"),
			"microservice": azure("compute", "FunctionApps"),
			"database":     azure("database", "SQLDatabases"),
			"nosql":        azure("database", "CosmosDb"),
			"queue":        azure("integration", "ServiceBus"),
			"notification": azure("integration", "ServiceBus"),
			"storage":      azure("storage", "BlobStorage"),
			"compute":      azure("compute", "ContainerInstances"),
			"container":    azure("compute", "ContainerInstances"),
			"loadbalancer": azure("network", "LoadBalancers"),
			"analytics":    azure("analytics", "SynapseAnalytics"),
			"etl":          azure("analytics", "DataFactories"),
			"streaming":    azure("analytics", "EventHubs"),
		},
		ProviderGCP: {
			"api":          gcp("network", "LoadBalancing"),
			"service":      gcp("compute", "Functions"),
			"microservice": gcp("compute", "Functions"),
			"database":     gcp("database", "SQL"),
			"nosql":        gcp("database", "Firestore"),
			"queue":        gcp("analytics", "Pubsub"),
			"notification": gcp("analytics", "Pubsub"),
			"storage":      gcp("storage", "Storage"),
			"compute":      gcp("compute", "ComputeEngine"),
			"container":    gcp("compute", "KubernetesEngine"),
			"loadbalancer": gcp("network", "LoadBalancing"),
			"analytics":    gcp("analytics", "Bigquery"),
			"etl":          gcp("analytics", "Dataflow"),
			"streaming":    gcp("analytics", "Pubsub"),
		},
		ProviderKubernetes: {
			"service":      k8s("compute", "Pod"),
			"microservice": k8s("compute", "Pod"),
			"network":      k8s("network", "Service"),
		},
		// onpremには "service" が無いため、未知の種別はDefaultIconになる
		ProviderOnPrem: {
			"database": onprem("database", "PostgreSQL"),
			"mysql":    onprem("database", "MySQL"),
			"cache":    onprem("inmemory", "Redis"),
			"queue":    onprem("queue", "RabbitMQ"),
		},
	}}
}

// Resolve はアイコンを以下の順で解決する
//  1. プロバイダ表でのコンポーネント種別の完全一致
//  2. プロバイダ表でのアイコン名（小文字化）の一致
//  3. プロバイダの "service" アイコン
//  4. DefaultIcon
func (c *IconCatalog) Resolve(provider Provider, componentType ComponentType, iconName string) Icon {
	table, ok := c.tables[provider]
	if !ok {
		return DefaultIcon
	}
	if icon, ok := table[string(componentType)]; ok {
		return icon
	}
	if icon, ok := table[strings.ToLower(iconName)]; ok {
		return icon
	}
	if icon, ok := table[string(ComponentService)]; ok {
		return icon
	}
	return DefaultIcon
}

// HasProvider はプロバイダが表に存在するかを返す
func (c *IconCatalog) HasProvider(provider Provider) bool {
	_, ok := c.tables[provider]
	return ok
}

// Providers は対応プロバイダを名前順で返す
func (c *IconCatalog) Providers() []Provider {
	providers := make([]Provider, 0, len(c.tables))
	for p := range c.tables {
		providers = append(providers, p)
	}
	sort.Slice(providers, func(i, j int) bool { return providers[i] < providers[j] })
	return providers
}

// ComponentTypes はプロバイダが対応するコンポーネント種別を名前順で返す
func (c *IconCatalog) ComponentTypes(provider Provider) []string {
	table := c.tables[provider]
	types := make([]string, 0, len(table))
	for t := range table {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
