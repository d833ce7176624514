// Package scheduler ejecuta tareas periódicas (conciliación de stock) con robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Scheduler envoltorio sobre cron.Cron con logging y recuperación de pánicos por job.
type Scheduler struct {
	sched *cron.Cron
	log   zerolog.Logger
	ctx   context.Context
	stop  context.CancelFunc
}

// New crea el scheduler en la zona horaria loc (UTC si es nil).
func New(loc *time.Location, log zerolog.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		sched: cron.New(cron.WithLocation(loc), cron.WithParser(cronParser)),
		log:   log,
		ctx:   ctx,
		stop:  cancel,
	}
}

// AddJob registra fn bajo la expresión spec. Un spec vacío desactiva el job y devuelve false.
func (s *Scheduler) AddJob(spec, name string, fn func(ctx context.Context)) (bool, error) {
	if spec == "" {
		s.log.Info().Str("job", name).Msg("job desactivado")
		return false, nil
	}
	_, err := s.sched.AddFunc(spec, func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error().Str("job", name).Interface("panic", r).Msg("job abortado")
			}
		}()
		started := time.Now()
		fn(s.ctx)
		s.log.Debug().Str("job", name).Dur("elapsed", time.Since(started)).Msg("job ejecutado")
	})
	if err != nil {
		return false, fmt.Errorf("job %s: expresión cron %q inválida: %w", name, spec, err)
	}
	s.log.Info().Str("job", name).Str("schedule", spec).Msg("job registrado")
	return true, nil
}

// Len número de jobs registrados.
func (s *Scheduler) Len() int {
	return len(s.sched.Entries())
}

func (s *Scheduler) Start() {
	s.sched.Start()
}

// Stop cancela el contexto de los jobs y espera a que terminen los que están en curso.
func (s *Scheduler) Stop() {
	s.stop()
	<-s.sched.Stop().Done()
}
