package internal

// Init builds the process logger from cfg and installs it as the global logger.
func Init(cfg *Config) (*Logger, error) {
	level, err := ParseLogLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	if err := InitGlobalLogger(cfg.Log.Dir, level, AllComponents); err != nil {
		// If logger initialization fails, use the default logger
		logger := GetLogger()
		logger.Error(ComponentGeneral, "Error initializing logger: %v", err)
		return logger, nil
	}

	logger := GetLogger()
	logger.SetLevel(level)
	return logger, nil
}
