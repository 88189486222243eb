package session

import (
	"sync/atomic"
)

// Sequencer выдает монотонно растущие номера запросов.
// Результат запроса применяется, только если его номер остается последним выданным.
type Sequencer struct {
	latest atomic.Uint64
}

// Next выдает номер нового запроса; все ранее выданные номера становятся устаревшими
func (s *Sequencer) Next() uint64 {
	return s.latest.Add(1)
}

// IsLatest сообщает, что после seq не было выдано новых номеров
func (s *Sequencer) IsLatest(seq uint64) bool {
	return s.latest.Load() == seq
}
