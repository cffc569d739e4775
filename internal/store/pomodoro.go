package store

// PomodoroSettings returns the stored settings merged over the defaults.
// Fields that are present but out of range fall back to their default.
func (s *Store) PomodoroSettings() PomodoroSettings {
	def := DefaultPomodoroSettings()
	settings := def
	if !s.load(CollectionPomodoroSettings, &settings) {
		return def
	}
	if !settings.Valid() {
		s.log.Warnw("pomodoro settings out of range, repairing", "settings", settings)
		if settings.WorkDuration < 1 {
			settings.WorkDuration = def.WorkDuration
		}
		if settings.ShortBreakDuration < 1 {
			settings.ShortBreakDuration = def.ShortBreakDuration
		}
		if settings.LongBreakDuration < 1 {
			settings.LongBreakDuration = def.LongBreakDuration
		}
		if settings.LongBreakInterval < 1 {
			settings.LongBreakInterval = def.LongBreakInterval
		}
	}
	return settings
}

func (s *Store) SavePomodoroSettings(settings PomodoroSettings) error {
	return s.save(CollectionPomodoroSettings, settings)
}

// PomodoroCount returns the weekly completed-pomodoro counter.
func (s *Store) PomodoroCount() int {
	var n int
	if !s.load(CollectionPomodoroCount, &n) {
		return 0
	}
	return n
}

func (s *Store) SavePomodoroCount(n int) error {
	return s.save(CollectionPomodoroCount, n)
}
