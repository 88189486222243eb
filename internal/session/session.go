// Package session ведет одну сессию формы оценки: выбор локации, отправку признаков
// и применение только последнего по времени ответа.
package session

import (
	"context"
	"errors"
	"sync"

	"house-price-gateway/internal/client"
	"house-price-gateway/internal/feature"
	"house-price-gateway/internal/location"
	"house-price-gateway/internal/scoreboard"
)

// ErrSuperseded возвращается, если за время запроса была отправлена более новая заявка
var ErrSuperseded = errors.New("request superseded by a newer one")

// Predictor оценивает вектор признаков
type Predictor interface {
	Predict(ctx context.Context, vec feature.Vector) (*client.PredictionResult, error)
}

// ScoreboardFetcher получает табло моделей; nil означает отсутствие
type ScoreboardFetcher interface {
	Fetch(ctx context.Context) *scoreboard.Scoreboard
}

// Outcome итог отправки формы
type Outcome struct {
	Seq    uint64
	Vector feature.Vector
	Result *client.PredictionResult
}

// Session состояние одной сессии. Каждая сессия получает свой экземпляр.
type Session struct {
	mu sync.Mutex

	selection location.Selection
	options   feature.Options
	predictor Predictor
	boards    ScoreboardFetcher

	predictSeq    Sequencer
	boardSeq      Sequencer
	cancelPredict context.CancelFunc
	cancelBoard   context.CancelFunc

	lastResult *client.PredictionResult
	lastBoard  *scoreboard.Scoreboard
}

// New создает сессию над справочником
func New(h *location.Hierarchy, predictor Predictor, boards ScoreboardFetcher, opts feature.Options) *Session {
	return &Session{
		selection: location.NewSelection(h),
		options:   opts,
		predictor: predictor,
		boards:    boards,
	}
}

// Selection текущее состояние выбора локации
func (s *Session) Selection() location.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// SetCity выбирает город
func (s *Session) SetCity(city string) location.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = s.selection.SetCity(city)
	return s.selection
}

// SetDistrict выбирает район
func (s *Session) SetDistrict(district string) (location.Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.selection.SetDistrict(district)
	if err != nil {
		return s.selection, err
	}
	s.selection = next
	return next, nil
}

// SetNeighborhood выбирает микрорайон
func (s *Session) SetNeighborhood(neighborhood string) (location.Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.selection.SetNeighborhood(neighborhood)
	if err != nil {
		return s.selection, err
	}
	s.selection = next
	return next, nil
}

// Submit строит вектор признаков и отправляет его на оценку.
// Новая отправка отменяет предыдущую; устаревший ответ не применяется и дает ErrSuperseded.
func (s *Session) Submit(ctx context.Context, raw feature.RawFields) (Outcome, error) {
	s.mu.Lock()
	seq := s.predictSeq.Next()
	if s.cancelPredict != nil {
		s.cancelPredict()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancelPredict = cancel
	sel := s.selection
	opts := s.options
	s.mu.Unlock()
	defer cancel()

	vec, err := feature.Build(raw, sel, opts)
	if err != nil {
		return Outcome{Seq: seq}, err
	}

	result, err := s.predictor.Predict(ctx, vec)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.predictSeq.IsLatest(seq) {
		return Outcome{Seq: seq, Vector: vec}, ErrSuperseded
	}
	s.cancelPredict = nil
	if err != nil {
		return Outcome{Seq: seq, Vector: vec}, err
	}

	s.lastResult = result
	return Outcome{Seq: seq, Vector: vec, Result: result}, nil
}

// RefreshScoreboard обновляет табло моделей. Возвращает nil, если табло недоступно
// или за время запроса было начато более новое обновление.
func (s *Session) RefreshScoreboard(ctx context.Context) *scoreboard.Scoreboard {
	s.mu.Lock()
	seq := s.boardSeq.Next()
	if s.cancelBoard != nil {
		s.cancelBoard()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancelBoard = cancel
	s.mu.Unlock()
	defer cancel()

	board := s.boards.Fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.boardSeq.IsLatest(seq) {
		return nil
	}
	s.cancelBoard = nil
	s.lastBoard = board
	return board
}

// LastResult последний примененный результат оценки
func (s *Session) LastResult() *client.PredictionResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResult
}

// LastScoreboard последнее примененное табло моделей
func (s *Session) LastScoreboard() *scoreboard.Scoreboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastBoard
}

// Close отменяет запросы, которые еще выполняются
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelPredict != nil {
		s.cancelPredict()
		s.cancelPredict = nil
	}
	if s.cancelBoard != nil {
		s.cancelBoard()
		s.cancelBoard = nil
	}
}
