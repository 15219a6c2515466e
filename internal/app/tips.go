package app

import (
	"context"
	"math/rand/v2"

	"cyberguard-quiz-service/internal/domain"
	"go.uber.org/zap"
)

// TipService picks the tip of the day.
type TipService struct {
	tips TipRepository
	log  *zap.Logger
	intn func(n int) int
}

func NewTipService(tips TipRepository, log *zap.Logger) *TipService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TipService{tips: tips, log: log, intn: rand.IntN}
}

// TipOfDay returns a uniformly random tip. Fetch failures are logged and
// reported the same way as an empty collection.
func (s *TipService) TipOfDay(ctx context.Context) (domain.Tip, bool) {
	tips, err := s.tips.ListTips(ctx)
	if err != nil {
		s.log.Error("fetch tips failed", zap.Error(err))
		return domain.Tip{}, false
	}
	return PickTip(tips, s.intn)
}

// PickTip selects one element with equal probability.
func PickTip(tips []domain.Tip, intn func(n int) int) (domain.Tip, bool) {
	if len(tips) == 0 {
		return domain.Tip{}, false
	}
	return tips[intn(len(tips))], true
}
