package event_bus

const (
	TechnologyCreated       EventType = "technology.created"
	TechnologyDeleted       EventType = "technology.deleted"
	TechnologyStatusChanged EventType = "technology.status.changed"
	StudyPlanSaved          EventType = "technology.study_plan.saved"
	StudyPlanRemoved        EventType = "technology.study_plan.removed"
	DataImported            EventType = "data.imported"
	DataCleared             EventType = "data.cleared"
)

type TechnologyChanged struct {
	TechnologyId int64
	Title        string
}

type StatusChanged struct {
	TechnologyId int64
	Title        string
	OldStatus    string
	NewStatus    string
}

type StudyPlanChanged struct {
	TechnologyId int64
	Title        string
	TotalHours   int
}

type DataReplaced struct {
	Count int
}
