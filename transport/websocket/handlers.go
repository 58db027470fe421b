package websocket

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
)

func (that *Server) handleNewGame(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleNewGame")

	game, err := that.gameUseCase.CreateGame(ctx)
	if err != nil {
		that.replyError(c, msg.Action, err)
		return nil
	}

	that.watch(game.ID, c)

	log.Info("game created", "game_id", game.ID)

	return that.sendMessage(c, msg.Action, Payload{Game: game})
}

func (that *Server) handleGameState(ctx context.Context, msg *Message, c *client) error {
	payloadReq, ok := that.readPayload(c, msg)
	if !ok {
		return nil
	}

	game, err := that.gameUseCase.GetGame(ctx, payloadReq.GameID)
	if err != nil {
		that.replyError(c, msg.Action, err)
		return nil
	}

	that.watch(game.ID, c)

	return that.sendMessage(c, msg.Action, Payload{Game: game})
}

func (that *Server) handleGameTurn(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleGameTurn")

	payloadReq, ok := that.readPayload(c, msg)
	if !ok {
		return nil
	}

	if payloadReq.Move == nil {
		that.sendError(c, msg.Action, "move is required", "")
		return nil
	}

	cell, err := payloadReq.Move.Cell()
	if err != nil {
		that.sendError(c, msg.Action, err.Error(), "")
		return nil
	}

	game, err := that.gameUseCase.PlaceStone(ctx, payloadReq.GameID, cell)
	if err != nil {
		that.replyError(c, msg.Action, err)
		return nil
	}

	that.watch(game.ID, c)

	winner := game.State.Winner
	that.broadcast(game.ID, msg.Action, Payload{
		Game:   game,
		Status: game.Status,
		Winner: &winner,
	})

	if game.IsOver() {
		that.broadcast(game.ID, actionGameOver, Payload{
			Game:   game,
			Status: game.Status,
			Winner: &winner,
		})

		log.Info("game finished", "game_id", game.ID, "status", game.Status, "winner", winner.String())
	}

	return nil
}

func (that *Server) handleGameReset(ctx context.Context, msg *Message, c *client) error {
	payloadReq, ok := that.readPayload(c, msg)
	if !ok {
		return nil
	}

	game, err := that.gameUseCase.ResetGame(ctx, payloadReq.GameID)
	if err != nil {
		that.replyError(c, msg.Action, err)
		return nil
	}

	that.watch(game.ID, c)
	that.broadcast(game.ID, msg.Action, Payload{Game: game})

	return nil
}

func (that *Server) handleGameRestore(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleGameRestore")

	payloadReq, ok := that.readPayload(c, msg)
	if !ok {
		return nil
	}

	if payloadReq.Snapshot == nil {
		that.sendError(c, msg.Action, "snapshot is required", "")
		return nil
	}

	game, err := that.gameUseCase.ImportSnapshot(ctx, payloadReq.GameID, payloadReq.Snapshot)
	if err != nil {
		that.replyError(c, msg.Action, err)
		return nil
	}

	that.watch(game.ID, c)
	that.broadcast(game.ID, msg.Action, Payload{Game: game})

	log.Info("game restored", "game_id", game.ID)

	return nil
}

// readPayload decodes the request payload and checks that it names a game.
// On failure the client has already been told why.
func (that *Server) readPayload(c *client, msg *Message) (Payload, bool) {
	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		if errors.Is(err, apperror.ErrInvalidSnapshot) {
			that.sendError(c, msg.Action, err.Error(), "")
			return Payload{}, false
		}

		that.sendError(c, msg.Action, "malformed payload", "")
		return Payload{}, false
	}

	if payloadReq.GameID == "" {
		that.sendError(c, msg.Action, "game_id is required", "")
		return Payload{}, false
	}

	return payloadReq, true
}

// replyError tells the sender why its request failed. Unexpected errors are
// reported without details.
func (that *Server) replyError(c *client, action string, err error) {
	if reason := apperror.Reason(err); reason != "" {
		that.sendError(c, action, err.Error(), reason)
		return
	}

	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		that.sendError(c, action, apperror.ErrGameNotFound.Error(), "")
	case errors.Is(err, apperror.ErrInvalidSnapshot):
		that.sendError(c, action, err.Error(), "")
	default:
		that.logger.Error("request failed", "action", action, "error", err)
		that.sendError(c, action, "internal error", "")
	}
}
