package game

import "errors"

var (
	ErrInvalidPhase          = errors.New("invalid phase")
	ErrNoActiveConversation  = errors.New("no active conversation")
	ErrConversationBusy      = errors.New("a conversation is already open")
	ErrWrongConversationStep = errors.New("conversation is not at that step")
	ErrInvalidOption         = errors.New("invalid option")
	ErrUnknownTopic          = errors.New("unknown topic")
	ErrSurvivorNotFound      = errors.New("survivor not found")
	ErrNotInCamp             = errors.New("not in camp")
	ErrUnknownLocation       = errors.New("unknown camp location")
	ErrNotAtLocation         = errors.New("survivor is not at that location")
	ErrGameOver              = errors.New("game is over")
	ErrNoCouncil             = errors.New("no tribal council in progress")
	ErrInvalidVote           = errors.New("invalid vote")
)
