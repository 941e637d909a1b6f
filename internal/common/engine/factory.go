package engine

import (
	"fmt"

	"records-search/internal/common/camunda"
	"records-search/internal/common/config"
	"records-search/internal/common/database"
	httpclient "records-search/internal/common/http"
	"records-search/internal/common/logger"
)

// New builds the Invoker selected by cfg.Engine.Transport.
func New(cfg *config.Config, log logger.Logger) (Invoker, error) {
	log = log.WithFields(map[string]interface{}{"transport": cfg.Engine.Transport})

	switch cfg.Engine.Transport {
	case config.TransportZeebe:
		client, err := camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: cfg.Camunda.Plaintext,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		if err != nil {
			return nil, err
		}
		log.Info("Connected to Zeebe gateway", map[string]interface{}{
			"address":     cfg.Camunda.BrokerAddress,
			"awaitResult": cfg.Camunda.AwaitResult,
		})
		return NewZeebeInvoker(client, cfg.Camunda.AwaitResult), nil

	case config.TransportRedis:
		rc, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return nil, err
		}
		log.Info("Using Redis command queue", map[string]interface{}{
			"address": cfg.Database.Redis.Address,
			"prefix":  cfg.Engine.QueuePrefix,
		})
		return NewRedisInvoker(rc.GetClient(), cfg.Engine.QueuePrefix), nil

	case config.TransportHTTP:
		log.Info("Using HTTP engine endpoint", map[string]interface{}{"baseUrl": cfg.HTTPEngine.BaseURL})
		client := httpclient.NewClient(config.GetDuration(cfg.HTTPEngine.Timeout))
		return NewHTTPInvoker(client, cfg.HTTPEngine.BaseURL), nil

	default:
		return nil, fmt.Errorf("unsupported engine transport %q", cfg.Engine.Transport)
	}
}
