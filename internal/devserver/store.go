package devserver

import (
	"sort"
	"sync"
	"time"

	"github.com/scholarsync/scholarsync/internal/domain"
)

// Store is the in-memory state behind the development backend: saved papers,
// reading lists, and list membership. Everything lives for the life of the
// process; the dev server exists so the client can run without the real
// backend.
type Store struct {
	mu sync.Mutex

	papers     map[string]domain.Paper // keyed by paper ID
	membership map[string]*int64       // paper ID -> reading list, nil = general collection
	savedOrder []string

	lists      map[int64]domain.ReadingList
	nextDBID   int64
	nextListID int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		papers:     make(map[string]domain.Paper),
		membership: make(map[string]*int64),
		lists:      make(map[int64]domain.ReadingList),
		nextDBID:   1,
		nextListID: 1,
	}
}

// SavePaper stores the paper, assigning a database ID on first save, and
// files it under the given reading list (nil for the general collection).
// Saving an already-saved paper moves it.
func (s *Store) SavePaper(paper domain.Paper, readingListID *int64) domain.Paper {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.papers[paper.ID]; ok {
		paper.DBID = existing.DBID
	} else {
		id := s.nextDBID
		s.nextDBID++
		paper.DBID = &id
		s.savedOrder = append(s.savedOrder, paper.ID)
	}
	s.papers[paper.ID] = paper
	s.membership[paper.ID] = readingListID
	return paper
}

// Paper returns a saved paper by ID.
func (s *Store) Paper(id string) (domain.Paper, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.papers[id]
	return p, ok
}

// DeletePaper removes a saved paper. It reports whether the paper existed.
func (s *Store) DeletePaper(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.papers[id]; !ok {
		return false
	}
	delete(s.papers, id)
	delete(s.membership, id)
	for i, pid := range s.savedOrder {
		if pid == id {
			s.savedOrder = append(s.savedOrder[:i], s.savedOrder[i+1:]...)
			break
		}
	}
	return true
}

// Papers returns saved papers in save order, optionally restricted to one
// reading list.
func (s *Store) Papers(readingListID *int64) []domain.Paper {
	s.mu.Lock()
	defer s.mu.Unlock()

	papers := make([]domain.Paper, 0, len(s.savedOrder))
	for _, id := range s.savedOrder {
		if readingListID != nil {
			member := s.membership[id]
			if member == nil || *member != *readingListID {
				continue
			}
		}
		papers = append(papers, s.papers[id])
	}
	return papers
}

// CreateList creates a reading list and returns it.
func (s *Store) CreateList(name, description string) domain.ReadingList {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := domain.ReadingList{
		ID:          s.nextListID,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	s.nextListID++
	s.lists[list.ID] = list
	return list
}

// List returns a reading list by ID with its current paper count.
func (s *Store) List(id int64) (domain.ReadingList, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, ok := s.lists[id]
	if !ok {
		return domain.ReadingList{}, false
	}
	list.PaperCount = s.countMembersLocked(id)
	return list, true
}

// Lists returns all reading lists ordered by ID, with current paper counts.
func (s *Store) Lists() []domain.ReadingList {
	s.mu.Lock()
	defer s.mu.Unlock()

	lists := make([]domain.ReadingList, 0, len(s.lists))
	for _, list := range s.lists {
		list.PaperCount = s.countMembersLocked(list.ID)
		lists = append(lists, list)
	}
	sort.Slice(lists, func(i, j int) bool { return lists[i].ID < lists[j].ID })
	return lists
}

// DeleteList removes a reading list, unassigning its papers back to the
// general collection. It reports whether the list existed.
func (s *Store) DeleteList(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lists[id]; !ok {
		return false
	}
	delete(s.lists, id)
	for paperID, member := range s.membership {
		if member != nil && *member == id {
			s.membership[paperID] = nil
		}
	}
	return true
}

func (s *Store) countMembersLocked(listID int64) int {
	n := 0
	for _, member := range s.membership {
		if member != nil && *member == listID {
			n++
		}
	}
	return n
}
