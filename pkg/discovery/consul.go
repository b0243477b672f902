package discovery

import (
	"fmt"
	"strconv"

	"github.com/hashicorp/consul/api"
	"github.com/rs/zerolog/log"
)

// ServiceRegistry registers this instance with Consul
type ServiceRegistry struct {
	client         *api.Client
	serviceName    string
	serviceID      string
	serviceAddress string
	servicePort    string
}

func NewServiceRegistry(consulAddress, serviceName, serviceID, serviceAddress, servicePort string) (*ServiceRegistry, error) {
	config := api.DefaultConfig()
	config.Address = consulAddress

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Consul client: %w", err)
	}

	return &ServiceRegistry{
		client:         client,
		serviceName:    serviceName,
		serviceID:      serviceID,
		serviceAddress: serviceAddress,
		servicePort:    servicePort,
	}, nil
}

// Registration builds the agent registration with an HTTP check on /health.
func (sr *ServiceRegistry) Registration() (*api.AgentServiceRegistration, error) {
	port, err := strconv.Atoi(sr.servicePort)
	if err != nil {
		return nil, fmt.Errorf("invalid port: %s: %w", sr.servicePort, err)
	}

	return &api.AgentServiceRegistration{
		ID:      sr.serviceID,
		Name:    sr.serviceName,
		Address: sr.serviceAddress,
		Port:    port,
		Tags:    []string{"quiz", "api"},
		Check: &api.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%s/health", sr.serviceAddress, sr.servicePort),
			Interval:                       "10s",
			Timeout:                        "5s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}, nil
}

func (sr *ServiceRegistry) Register() error {
	registration, err := sr.Registration()
	if err != nil {
		return err
	}
	if err := sr.client.Agent().ServiceRegister(registration); err != nil {
		return fmt.Errorf("failed to register service: %w", err)
	}

	log.Info().Str("service", sr.serviceName).Str("id", sr.serviceID).Msg("registered with Consul")
	return nil
}

func (sr *ServiceRegistry) Deregister() error {
	if err := sr.client.Agent().ServiceDeregister(sr.serviceID); err != nil {
		return fmt.Errorf("failed to deregister service: %w", err)
	}

	log.Info().Str("service", sr.serviceName).Msg("deregistered from Consul")
	return nil
}
