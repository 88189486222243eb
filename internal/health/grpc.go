// Package health публикует состояние движка оценки через стандартный gRPC health протокол.
package health

import (
	"context"
	"fmt"
	"net"
	"time"

	"house-price-gateway/pkg/models"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// EngineService имя сервиса в health протоколе
const EngineService = "houseprice.Engine"

// Checker проверяет состояние движка
type Checker interface {
	CheckHealth(ctx context.Context) (*models.HealthResponse, error)
}

// Server gRPC сервер с health сервисом
type Server struct {
	grpcServer   *grpc.Server
	healthServer *health.Server
	checker      Checker
	interval     time.Duration
	logger       *logrus.Logger
}

// NewServer создает сервер; до первой проверки движок считается недоступным
func NewServer(checker Checker, interval time.Duration, logger *logrus.Logger) *Server {
	gs := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)

	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(EngineService, healthpb.HealthCheckResponse_NOT_SERVING)

	return &Server{
		grpcServer:   gs,
		healthServer: hs,
		checker:      checker,
		interval:     interval,
		logger:       logger,
	}
}

// Serve принимает соединения на lis до остановки сервера
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Infof("gRPC health сервер запущен на %s", lis.Addr())
	if err := s.grpcServer.Serve(lis); err != nil {
		return fmt.Errorf("grpc serve: %w", err)
	}
	return nil
}

// Watch периодически опрашивает движок до отмены ctx
func (s *Server) Watch(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

// Refresh выполняет одну проверку и обновляет статус
func (s *Server) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	checkCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	resp, err := s.checker.CheckHealth(checkCtx)
	switch {
	case err != nil:
		status = healthpb.HealthCheckResponse_NOT_SERVING
		s.logger.WithField("service", EngineService).Warnf("Движок оценки недоступен: %v", err)
	case resp == nil || resp.Status != "healthy":
		status = healthpb.HealthCheckResponse_NOT_SERVING
		s.logger.WithField("service", EngineService).Warn("Движок оценки сообщил о неисправности")
	}

	s.healthServer.SetServingStatus(EngineService, status)
	return status
}

// Stop переводит сервисы в NOT_SERVING и останавливает сервер
func (s *Server) Stop() {
	s.healthServer.Shutdown()
	s.grpcServer.GracefulStop()
}
