package conf

import (
	"fmt"
)

type Bootstrap struct {
	Server *Server `yaml:"server" json:"server"`
	Data   *Data   `yaml:"data" json:"data"`
	Client *Client `yaml:"client" json:"client"`
	Engine *Engine `yaml:"engine" json:"engine"`
	Log    *Log    `yaml:"log" json:"log"`
}

type Server struct {
	Http struct {
		Addr    string `yaml:"addr" json:"addr"`
		Timeout string `yaml:"timeout" json:"timeout"`
	} `yaml:"http" json:"http"`
}

type Data struct {
	Database struct {
		Driver          string `yaml:"driver" json:"driver"`
		Source          string `yaml:"source" json:"source"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" json:"conn_max_lifetime"`
	} `yaml:"database" json:"database"`
	Redis struct {
		Addr         string `yaml:"addr" json:"addr"`
		Password     string `yaml:"password" json:"password"`
		Db           int32  `yaml:"db" json:"db"`
		ReadTimeout  string `yaml:"read_timeout" json:"read_timeout"`
		WriteTimeout string `yaml:"write_timeout" json:"write_timeout"`
		DialTimeout  string `yaml:"dial_timeout" json:"dial_timeout"`
		PoolSize     int32  `yaml:"pool_size" json:"pool_size"`
		MinIdleConns int32  `yaml:"min_idle_conns" json:"min_idle_conns"`
	} `yaml:"redis" json:"redis"`
}

type Client struct {
	CatalogService *CatalogService `yaml:"catalog_service" json:"catalog_service"`
}

type CatalogService struct {
	Addr    string `yaml:"addr" json:"addr"`
	Timeout string `yaml:"timeout" json:"timeout"`
}

// Engine 生命周期引擎相关配置
type Engine struct {
	// MaterializeWindowDays 定时物化向前生成的天数
	MaterializeWindowDays int `yaml:"materialize_window_days" json:"materialize_window_days"`
}

type Log struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	Output string `yaml:"output" json:"output"`
}

// Validate validates the configuration
func (b *Bootstrap) Validate() error {
	if b.Server == nil {
		return fmt.Errorf("server configuration is required")
	}
	if b.Server.Http.Addr == "" {
		return fmt.Errorf("server.http.addr is required")
	}
	if b.Data == nil {
		return fmt.Errorf("data configuration is required")
	}
	if b.Data.Database.Source == "" {
		return fmt.Errorf("data.database.source is required")
	}
	if b.Client == nil || b.Client.CatalogService == nil || b.Client.CatalogService.Addr == "" {
		return fmt.Errorf("client.catalog_service.addr is required")
	}
	if b.Engine != nil && b.Engine.MaterializeWindowDays < 0 {
		return fmt.Errorf("engine.materialize_window_days must not be negative")
	}
	if b.Log == nil {
		return fmt.Errorf("log configuration is required")
	}
	return nil
}
