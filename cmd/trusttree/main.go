package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/temirov/trusttree/internal/cli"
	"github.com/temirov/trusttree/internal/utils"
)

// main is the entry point for the trusttree command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger()
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	if applicationExecutionError := cli.Execute(); applicationExecutionError != nil {
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage, zap.Error(applicationExecutionError))
	}
	syncLogger(loggerInstance)
}

// syncLogger flushes the logger when stderr can be synced; pipes and character devices reject fsync.
func syncLogger(logger *zap.Logger) {
	if !term.IsTerminal(int(os.Stderr.Fd())) && !isRegularFile(os.Stderr) {
		return
	}
	if syncError := logger.Sync(); syncError != nil && !strings.Contains(strings.ToLower(syncError.Error()), "invalid argument") {
		log.Printf("logger sync failed: %v", syncError)
	}
}

func isRegularFile(file *os.File) bool {
	fileInfo, statError := file.Stat()
	if statError != nil {
		return false
	}
	return fileInfo.Mode().IsRegular()
}
