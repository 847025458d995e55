// Package presenter drives the process instance log view: it pages node
// logs in for the selected instance and resolves human task details.
package presenter

import (
	"context"
	"log"
	"time"

	"github.com/rusenback/bpmmon/internal/async"
	"github.com/rusenback/bpmmon/internal/dataset"
	"github.com/rusenback/bpmmon/internal/model"
)

// DefaultPageSize is the number of log rows fetched per page
const DefaultPageSize = 10

// State of the presenter
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// PaginationState is the page bookkeeping exposed to the view
type PaginationState struct {
	CurrentPage int
	PageSize    int
	HasMore     bool
}

// Collaborators wires a ProcessInstanceLogPresenter
type Collaborators struct {
	View        LogView
	ErrorPopup  ErrorPopup
	QueryHelper QueryHelper
	Filters     FilterSettingsManager
	Tasks       TaskService
	Runner      async.Runner
	PageSize    int
}

// ProcessInstanceLogPresenter loads the node log of the selected process
// instance page by page. All methods must be called from one goroutine;
// replies are delivered on it by the Runner.
type ProcessInstanceLogPresenter struct {
	view        LogView
	errorPopup  ErrorPopup
	queryHelper QueryHelper
	filters     FilterSettingsManager
	tasks       TaskService
	runner      async.Runner

	pageSize     int
	currentPage  int
	loadedPages  int
	lastPageRows int // rows held by the last loaded page
	pendingPage  int
	hasMore      bool
	state        State
	logs         []model.LogEntry

	selection   *model.SelectionEvent
	dataSetUUID string

	// generation changes on every reset; replies carry the value they were
	// issued under and are dropped when it no longer matches
	generation uint64

	// taskRequest identifies the latest task lookup
	taskRequest uint64
}

// NewProcessInstanceLogPresenter creates an idle presenter
func NewProcessInstanceLogPresenter(c Collaborators) *ProcessInstanceLogPresenter {
	pageSize := c.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	filters := c.Filters
	if filters == nil {
		filters = LogFilterSettingsManager{}
	}
	runner := c.Runner
	if runner == nil {
		runner = async.Inline{}
	}

	return &ProcessInstanceLogPresenter{
		view:        c.View,
		errorPopup:  c.ErrorPopup,
		queryHelper: c.QueryHelper,
		filters:     filters,
		tasks:       c.Tasks,
		runner:      runner,
		pageSize:    pageSize,
		hasMore:     true,
		dataSetUUID: dataset.ProcessInstanceLogs,
	}
}

// OnProcessInstanceSelection replaces the selection and loads its first page
func (p *ProcessInstanceLogPresenter) OnProcessInstanceSelection(evt model.SelectionEvent) {
	sel := evt
	p.selection = &sel
	p.reset()

	fs := p.filters.CreateDefaultFilterSettings(evt.ProcessInstanceID)
	p.dataSetUUID = fs.DataSetUUID
	p.queryHelper.SetCurrentTableSettings(fs)

	p.fetch(0)
}

// LoadProcessInstanceLogs reloads the log of the current selection from
// the first page
func (p *ProcessInstanceLogPresenter) LoadProcessInstanceLogs() {
	if p.selection == nil {
		return
	}
	p.reset()
	p.fetch(0)
}

// LoadMoreProcessInstanceLogs fetches the page after the last loaded one.
// When the last page was short it is fetched again instead, and only the
// rows it gained since are appended.
func (p *ProcessInstanceLogPresenter) LoadMoreProcessInstanceLogs() {
	if p.selection == nil {
		return
	}
	page := p.loadedPages
	if page > 0 && p.lastPageRows < p.pageSize {
		page--
	}
	p.fetch(page)
}

// LoadTaskDetails resolves the task behind a human task node and hands it
// to view together with the log date of the node
func (p *ProcessInstanceLogPresenter) LoadTaskDetails(workItemID int64, logDate time.Time, view HumanTaskView) {
	if p.selection == nil || p.tasks == nil {
		return
	}
	sel := *p.selection
	gen := p.generation
	p.taskRequest++
	req := p.taskRequest

	async.Call(p.runner, func(ctx context.Context) (model.TaskSummary, error) {
		return p.tasks.GetTaskByWorkItemID(ctx, sel.ServerTemplateID, sel.DeploymentID, workItemID)
	}, func(task model.TaskSummary, err error) {
		if gen != p.generation {
			log.Printf("presenter: dropping task reply work_item=%d for stale selection", workItemID)
			return
		}
		if req != p.taskRequest {
			log.Printf("presenter: dropping task reply work_item=%d, a newer lookup was issued", workItemID)
			return
		}
		if err != nil {
			log.Printf("presenter: task lookup failed work_item=%d: %v", workItemID, err)
			p.showMessage(TaskLookupFailure(workItemID, err))
			return
		}
		view.SetDetailsData(task, logDate)
	})
}

// reset drops the list and invalidates every reply still in flight
func (p *ProcessInstanceLogPresenter) reset() {
	p.generation++
	p.logs = nil
	p.currentPage = 0
	p.loadedPages = 0
	p.lastPageRows = 0
	p.hasMore = true
	p.state = StateIdle
}

func (p *ProcessInstanceLogPresenter) fetch(page int) {
	if p.state == StateLoading {
		log.Printf("presenter: ignoring page %d request, page fetch in flight", page)
		return
	}
	p.state = StateLoading
	p.pendingPage = page
	gen := p.generation
	uuid := p.dataSetUUID

	p.queryHelper.LookupDataSet(page*p.pageSize, dataset.Callbacks{
		Ready: func(ds dataset.DataSet) {
			if !p.current(gen, page) {
				return
			}
			p.appendPage(page, logEntriesFromDataSet(ds))
		},
		Missing: func() {
			if !p.current(gen, page) {
				return
			}
			p.state = StateIdle
			p.showMessage(DataSetNotFound(uuid))
		},
		Failed: func(err error) {
			if !p.current(gen, page) {
				return
			}
			log.Printf("presenter: data set lookup failed uuid=%s page=%d: %v", uuid, page, err)
			p.state = StateIdle
			p.showMessage(DataSetError(uuid, dataset.ErrorMessage(err)))
		},
	})
}

// current reports whether a reply for page issued under gen still applies
func (p *ProcessInstanceLogPresenter) current(gen uint64, page int) bool {
	if gen != p.generation {
		log.Printf("presenter: dropping page %d reply for stale selection", page)
		return false
	}
	if p.state != StateLoading || page != p.pendingPage {
		log.Printf("presenter: dropping page %d reply, expected page %d", page, p.pendingPage)
		return false
	}
	return true
}

func (p *ProcessInstanceLogPresenter) appendPage(page int, entries []model.LogEntry) {
	if page == p.loadedPages-1 {
		// refetch of a short last page: keep the rows already shown
		if len(entries) > p.lastPageRows {
			p.logs = append(p.logs, entries[p.lastPageRows:]...)
			p.lastPageRows = len(entries)
		}
	} else {
		p.logs = append(p.logs, entries...)
		p.loadedPages = page + 1
		p.lastPageRows = len(entries)
	}
	p.currentPage = page
	p.hasMore = len(entries) == p.pageSize
	p.state = StateLoaded

	if p.view != nil {
		p.view.SetLogsList(p.Logs())
		p.view.HideLoadButton(!p.hasMore)
	}
}

func (p *ProcessInstanceLogPresenter) showMessage(msg string) {
	if p.errorPopup != nil {
		p.errorPopup.ShowMessage(msg)
	}
}

// Logs returns a copy of the accumulated log list
func (p *ProcessInstanceLogPresenter) Logs() []model.LogEntry {
	return append([]model.LogEntry(nil), p.logs...)
}

func (p *ProcessInstanceLogPresenter) CurrentPage() int { return p.currentPage }

func (p *ProcessInstanceLogPresenter) PageSize() int { return p.pageSize }

func (p *ProcessInstanceLogPresenter) HasMore() bool { return p.hasMore }

func (p *ProcessInstanceLogPresenter) State() State { return p.state }

// Pagination returns the page bookkeeping
func (p *ProcessInstanceLogPresenter) Pagination() PaginationState {
	return PaginationState{
		CurrentPage: p.currentPage,
		PageSize:    p.pageSize,
		HasMore:     p.hasMore,
	}
}

// Selection returns the selected instance, if any
func (p *ProcessInstanceLogPresenter) Selection() (model.SelectionEvent, bool) {
	if p.selection == nil {
		return model.SelectionEvent{}, false
	}
	return *p.selection, true
}
