package common

import "sync"

type Job func() error

// JobQueue runs jobs one by one on a single background goroutine. Front-ends which receive requests concurrently
// use it to make sure only one job is in flight at a time.
type JobQueue struct {
	jobsChannel chan Job
	stopOnce    sync.Once
	waitGroup   sync.WaitGroup
	logger      Logger
}

func NewJobQueue(capacity int, logger Logger) *JobQueue {
	worker := &JobQueue{
		jobsChannel: make(chan Job, capacity),
		logger:      logger,
	}
	worker.waitGroup.Add(1)
	go worker.run()
	return worker
}

// Enqueue schedules the job. Returns false (and drops the job) if the queue is full.
func (j *JobQueue) Enqueue(job Job) bool {
	select {
	case j.jobsChannel <- job:
		return true
	default:
		j.logger.Log("job queue is full, dropping a job\n")
		return false
	}
}

// Stop waits for already enqueued jobs to finish. Enqueue must not be called after Stop.
func (j *JobQueue) Stop() {
	j.stopOnce.Do(func() {
		close(j.jobsChannel)
	})
	j.waitGroup.Wait()
}

func (j *JobQueue) run() {
	defer j.waitGroup.Done()
	for job := range j.jobsChannel {
		err := job()
		if err != nil {
			j.logger.Log("failed to process a job: " + err.Error() + "\n")
		}
	}
}
