package constants

const (
	// Keys of the two persisted entries.
	TasksKey          = "productivityTasks"
	ClaimedRewardsKey = "claimedRewards"

	// PointsPerTask is awarded for each completed task and counted toward the
	// total for each of today's tasks.
	PointsPerTask = 10
)
