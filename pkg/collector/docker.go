package collector

import (
	"context"

	"hostcheck/pkg/log"
	"hostcheck/pkg/models"

	"github.com/docker/docker/client"
)

// collectDocker reports the container runtime state. The daemon is only queried
// when the docker CLI is installed.
func (c *Collector) collectDocker(ctx context.Context) models.DockerStatus {
	if !c.has("docker") {
		return models.DockerNotInstalled
	}

	pingCtx, cancel := context.WithTimeout(ctx, c.opts.CommandTimeout)
	defer cancel()

	if err := c.dockerPing(pingCtx); err != nil {
		log.Info().Err(err).Msg("Docker daemon not reachable")
		return models.DockerInstalledNotRunning
	}
	return models.DockerRunning
}

// pingDockerDaemon pings the daemon configured by the DOCKER_* environment.
func pingDockerDaemon(ctx context.Context) error {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := cli.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close docker client")
		}
	}()

	_, err = cli.Ping(ctx)
	return err
}
