package main

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/storyviz"
	"github.com/aretw0/storyviz/internal/cli"
	"github.com/aretw0/storyviz/pkg/config"
	"github.com/aretw0/storyviz/pkg/domain"
	"github.com/aretw0/storyviz/pkg/nlu"
)

// loadAgent builds an agent and the NLU reference for the long-running commands.
func loadAgent(in *inputs, logger *slog.Logger) (*storyviz.Agent, domain.NLUDataRef, error) {
	policies, err := config.Load(in.ConfigPath)
	if err != nil {
		return nil, domain.Absent(), err
	}

	agent, err := storyviz.New(in.DomainPath, policies, storyviz.WithLogger(logger))
	if err != nil {
		return nil, domain.Absent(), err
	}

	nluRef, err := cli.LoadNLURef(in.NLUDataPath, nlu.LoadData)
	if err != nil {
		return nil, domain.Absent(), fmt.Errorf("loading nlu data: %w", err)
	}
	return agent, nluRef, nil
}
