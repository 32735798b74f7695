package scheduler

import (
	"sync"
	"time"
)

// Task представляет единицу отложенной работы
type Task func()

// Scheduler планирует отложенные задачи, адресуемые строковым ключом.
// Повторное планирование под тем же ключом замещает предыдущую задачу.
// Отмена несуществующей или уже выполненной задачи не является ошибкой.
type Scheduler interface {
	Schedule(key string, runAt time.Time, task Task)
	Cancel(key string) bool
	RunNow(key string, task Task)
	Stop()
}

type timerScheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	wg     sync.WaitGroup
}

// New создает планировщик на таймерах внутри процесса
func New() Scheduler {
	return &timerScheduler{timers: make(map[string]*time.Timer)}
}

// Schedule ставит задачу на время runAt. Прошедшее время означает
// немедленный запуск. Существующая задача с тем же ключом отменяется.
func (s *timerScheduler) Schedule(key string, runAt time.Time, task Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[key]; ok {
		if timer.Stop() {
			s.wg.Done()
		}
	}

	s.wg.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(time.Until(runAt), func() {
		defer s.wg.Done()
		s.mu.Lock()
		// Между срабатыванием таймера и захватом мьютекса ключ мог быть
		// переиспользован: удаляем запись только если она всё ещё наша.
		if s.timers[key] == timer {
			delete(s.timers, key)
		}
		s.mu.Unlock()
		task()
	})
	s.timers[key] = timer
}

// Cancel отзывает задачу по ключу. Возвращает false, если задача
// не найдена или уже сработала.
func (s *timerScheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer, ok := s.timers[key]
	if !ok {
		return false
	}
	delete(s.timers, key)
	if timer.Stop() {
		s.wg.Done()
	}
	return true
}

// RunNow выполняет задачу немедленно в фоне, не занимая ключ
func (s *timerScheduler) RunNow(key string, task Task) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		task()
	}()
}

// Stop отменяет все запланированные задачи и дожидается запущенных
func (s *timerScheduler) Stop() {
	s.mu.Lock()
	for key, timer := range s.timers {
		if timer.Stop() {
			s.wg.Done()
		}
		delete(s.timers, key)
	}
	s.mu.Unlock()
	s.wg.Wait()
}
