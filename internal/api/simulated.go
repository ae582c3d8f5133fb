// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the client side of the LegiChat answer endpoint.
package api

import (
	"context"
	"fmt"
	"time"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/model"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/util"
)

// DefaultSimulatedDelay is how long SimulatedClient waits before replying.
const DefaultSimulatedDelay = 1500 * time.Millisecond

// SimulatedClient answers locally after a fixed delay. It lets the interface be
// exercised without a backend.
type SimulatedClient struct {
	Delay time.Duration
}

// NewSimulatedClient creates a simulated client. A non-positive delay means
// DefaultSimulatedDelay.
func NewSimulatedClient(delay time.Duration) *SimulatedClient {
	if delay <= 0 {
		delay = DefaultSimulatedDelay
	}
	return &SimulatedClient{Delay: delay}
}

// Submit waits for the delay, then returns a canned reply. Cancelling ctx
// returns a cancellation error immediately.
func (c *SimulatedClient) Submit(ctx context.Context, conversationID, text string) (*model.Message, error) {
	timer := time.NewTimer(c.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, &RequestError{Op: opSubmit, Err: ctx.Err()}
	case <-timer.C:
	}

	msg := model.NewMessage(conversationID, simulatedAnswer(text), model.RoleAssistant)
	msg.Metadata = &model.ResponseMetadata{
		ResponseType: model.ResponseLegalAnswer,
		Country:      "Burkina Faso",
		Sources: []model.Source{
			{Document: "Code civil", Type: "code", Numero: "1134", Relevance: 0.82},
		},
	}
	return msg, nil
}

func simulatedAnswer(question string) string {
	return fmt.Sprintf("**Réponse simulée**\n\nVous avez demandé : _%s_\n\n"+
		"Ceci est une réponse de démonstration générée localement. "+
		"Configurez `api.url` et désactivez `api.simulate` pour interroger le service réel.",
		util.TruncateRunes(util.OneLine(question), 120))
}
