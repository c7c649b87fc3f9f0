// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"parche-recommender/internal/common/config"
)

type Logger interface {
	Info(msg string, fields map[string]interface{})
}

// JobHandler matches the Handle method of every job worker.
type JobHandler func(client worker.JobClient, job entities.Job)

type Worker struct {
	taskType string
	worker   worker.JobWorker
	log      Logger
}

// Options fills zero values of a worker config with the gateway defaults.
func Options(wcfg config.WorkerConfig, defaults config.CamundaConfig) config.WorkerConfig {
	if wcfg.MaxJobsActive <= 0 {
		wcfg.MaxJobsActive = defaults.MaxJobsActive
	}
	if wcfg.Timeout <= 0 {
		wcfg.Timeout = defaults.Timeout
	}
	return wcfg
}

// StartWorker opens a job worker for taskType. It returns nil when the
// worker is disabled.
func StartWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler JobHandler, log Logger) *Worker {
	if !wcfg.Enabled {
		log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return nil
	}

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(worker.JobHandler(handler)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})

	return &Worker{taskType: taskType, worker: jobWorker, log: log}
}

func (w *Worker) Stop() {
	if w == nil {
		return
	}
	w.log.Info("stopping worker", map[string]interface{}{"taskType": w.taskType})
	w.worker.Close()
	w.worker.AwaitClose()
}
