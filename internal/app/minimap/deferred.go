package minimap

// Deferred is a single-slot queue: work scheduled during one tick runs at the
// start of the next. Scheduling while a job is pending is a no-op.
type Deferred struct {
	job func()
}

func (d *Deferred) Schedule(job func()) bool {
	if d.job != nil {
		return false
	}
	d.job = job
	return true
}

func (d *Deferred) Pending() bool {
	return d.job != nil
}

// Drain runs the pending job, if any. The slot is freed before the job runs
// so the job may schedule a retry.
func (d *Deferred) Drain() bool {
	job := d.job
	if job == nil {
		return false
	}
	d.job = nil
	job()
	return true
}
