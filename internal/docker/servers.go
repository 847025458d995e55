package docker

import (
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/rusenback/bpmmon/internal/model"
)

// ListServerTemplates palauttaa engine containerit, joilla on server label
func (c *Client) ListServerTemplates() ([]model.ServerTemplate, error) {
	containers, err := c.cli.ContainerList(c.ctx, container.ListOptions{
		All:     true, // Näytä myös pysäytetyt
		Filters: filters.NewArgs(filters.Arg("label", c.serverLabel)),
	})
	if err != nil {
		return nil, err
	}

	result := make([]model.ServerTemplate, 0, len(containers))
	for _, cont := range containers {
		name := cont.ID
		if len(cont.Names) > 0 {
			// Poista "/" container nimen alusta
			name = strings.TrimPrefix(cont.Names[0], "/")
		}

		result = append(result, model.ServerTemplate{
			ID:          cont.Labels[c.serverLabel],
			ContainerID: cont.ID,
			Name:        name,
			State:       cont.State,
		})
	}

	return result, nil
}
