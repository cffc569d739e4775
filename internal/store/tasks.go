package store

// Tasks returns the stored task list, or an empty list when missing or corrupt.
func (s *Store) Tasks() []Task {
	var tasks []Task
	if !s.load(CollectionTasks, &tasks) || tasks == nil {
		return []Task{}
	}
	return tasks
}

func (s *Store) SaveTasks(tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	return s.save(CollectionTasks, tasks)
}
