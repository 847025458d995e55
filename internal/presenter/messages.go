package presenter

import "fmt"

// DataSetNotFound is shown when the data set lookup reports no data set
func DataSetNotFound(uuid string) string {
	return fmt.Sprintf("Data set %s could not be found", uuid)
}

// DataSetError is shown when the data set lookup fails
func DataSetError(uuid, message string) string {
	return fmt.Sprintf("Error loading data set %s: %s", uuid, message)
}

// TaskLookupFailure is shown when task details cannot be loaded
func TaskLookupFailure(workItemID int64, err error) string {
	return fmt.Sprintf("Unable to load task details for work item %d: %v", workItemID, err)
}
