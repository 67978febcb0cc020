package api

import (
	"context"
	"fmt"
)

// CreateGameRequest holds the parameters for a new game. MarketValue may be
// left empty when the host wants to set the settlement value during the game
// instead of up front.
type CreateGameRequest struct {
	GameName    string `json:"gameName"`
	GameMinutes int    `json:"gameMinutes"`
	MarketValue string `json:"marketValue"`
}

// CreateGameResponse carries the id of the created game, used to build the
// game URL and the viewGame command.
type CreateGameResponse struct {
	GameID string `json:"gameId"`
}

// CreateGame creates a new game and returns its id.
func (c *Client) CreateGame(ctx context.Context, req CreateGameRequest) (*CreateGameResponse, error) {
	if req.GameName == "" {
		return nil, fmt.Errorf("game name is required")
	}
	if req.GameMinutes <= 0 {
		return nil, fmt.Errorf("game minutes must be positive, got %d", req.GameMinutes)
	}

	var resp CreateGameResponse
	if err := c.post(ctx, "/api/game/", req, &resp); err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}

	c.logger.Info("game created", "game_id", resp.GameID, "name", req.GameName)
	return &resp, nil
}
