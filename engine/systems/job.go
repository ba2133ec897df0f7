package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/skelmesh/engine/core"
)

/** @brief Describes a type of job */
type JobType int

const (
	/** @brief A general job that does not have any specific thread requirements. */
	JOB_TYPE_GENERAL JobType = 0x02
	/** @brief A resource loading job. Reads and decodes an asset from disk. */
	JOB_TYPE_RESOURCE_LOAD JobType = 0x04
)

/** @brief Informational priority of a job. Jobs are served in submission order. */
type JobPriority int

const (
	JOB_PRIORITY_LOW JobPriority = iota
	JOB_PRIORITY_NORMAL
	JOB_PRIORITY_HIGH
)

/** @brief Invoked on a worker when the job starts. Results are sent on out. */
type JobStart func(params interface{}, out chan interface{}) error

/** @brief Invoked on a worker with the results channel of a finished job. */
type JobOnComplete func(out chan interface{})

/**
 * @brief Describes a job to be run.
 */
type JobTask struct {
	JobType     JobType
	Priority    JobPriority
	InputParams interface{}
	/** @brief Required. */
	OnStart JobStart
	/** @brief Optional. Called when OnStart returned no error. */
	OnComplete JobOnComplete
	/** @brief Optional. Called when OnStart returned an error. */
	OnFailure JobOnComplete
	/** @brief Optional. Always called last. */
	OnCompletionCallback func()
}

type JobSystem struct {
	numWorkers int
	jobQueue   chan JobTask
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan JobTask, channelSize),
	}

	js.start()

	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				js.run(job)
			}
		}()
	}
}

func (js *JobSystem) run(job JobTask) {
	if job.OnCompletionCallback != nil {
		defer job.OnCompletionCallback()
	}
	if job.OnStart == nil {
		core.LogWarn("job of type %d submitted without an entry point", job.JobType)
		return
	}

	out := make(chan interface{}, 1)
	if err := job.OnStart(job.InputParams, out); err != nil {
		core.LogError(err.Error())
		if job.OnFailure != nil {
			job.OnFailure(out)
		}
		return
	}
	if job.OnComplete != nil {
		job.OnComplete(out)
	}
}

/**
 * @brief Shuts the job system down. Queued jobs are drained before it returns.
 */
func (js *JobSystem) Shutdown() error {
	js.closeOnce.Do(func() {
		close(js.jobQueue)
	})
	js.wg.Wait()
	return nil
}

// NumWorkers returns the size of the pool.
func (js *JobSystem) NumWorkers() int {
	return js.numWorkers
}

// AddWorkNonBlocking adds work to the pool and returns immediately
func (js *JobSystem) AddWorkNonBlocking(jt JobTask) {
	go js.Submit(jt)
}

/**
 * @brief Submits the provided job to be queued for execution.
 * Blocks while the queue is full.
 */
func (js *JobSystem) Submit(jt JobTask) {
	js.jobQueue <- jt
}
