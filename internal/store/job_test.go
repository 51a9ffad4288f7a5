package store

import "testing"

func TestJobFilters(t *testing.T) {
	db := openTestDB(t)
	uid := createTestUser(t, db, "jobs@test.local")
	js := NewJobStore(db)

	js.Create("Barista", "Campus Cafe", "part-time", "Student Union", "customer service", uid)
	js.Create("Lab Assistant", "Chem Dept", "internship", "Science Hall", "Python, lab safety", uid)
	js.Create("TA", "CS Dept", "part-time", "Engineering", "python, grading", uid)

	// Type equality filter.
	jobs, err := js.List(JobFilters{JobType: "internship"})
	if err != nil {
		t.Fatalf("list jobs: %v", err)
	}
	if len(jobs) != 1 || jobs[0].Title != "Lab Assistant" {
		t.Errorf("type filter returned %d jobs", len(jobs))
	}

	// "all" means no type filter.
	jobs, _ = js.List(JobFilters{JobType: "all"})
	if len(jobs) != 3 {
		t.Errorf("type=all returned %d jobs, want 3", len(jobs))
	}

	// Skills match is a case-insensitive substring.
	jobs, _ = js.List(JobFilters{Skills: "PYTHON"})
	if len(jobs) != 2 {
		t.Errorf("skills filter returned %d jobs, want 2", len(jobs))
	}

	// Filters combine.
	jobs, _ = js.List(JobFilters{JobType: "part-time", Skills: "python"})
	if len(jobs) != 1 || jobs[0].Title != "TA" {
		t.Errorf("combined filter returned %d jobs", len(jobs))
	}
}

func TestJobListNewestFirst(t *testing.T) {
	db := openTestDB(t)
	uid := createTestUser(t, db, "jobs2@test.local")
	js := NewJobStore(db)

	js.Create("First", "A", "part-time", "", "", uid)
	js.Create("Second", "B", "part-time", "", "", uid)

	jobs, err := js.List(JobFilters{})
	if err != nil {
		t.Fatalf("list jobs: %v", err)
	}
	if len(jobs) != 2 || jobs[0].Title != "Second" {
		t.Errorf("jobs not newest first: %+v", jobs)
	}
}

func TestJobDeleteAdminBypass(t *testing.T) {
	db := openTestDB(t)
	owner := createTestUser(t, db, "jobs3@test.local")
	admin := createTestUser(t, db, "jobs4@test.local")
	js := NewJobStore(db)

	j, _ := js.Create("Tutor", "Math Dept", "part-time", "", "", owner)

	if deleted, _ := js.Delete(j.ID, admin, false); deleted {
		t.Error("non-owner delete should not remove the job")
	}
	if deleted, _ := js.Delete(j.ID, admin, true); !deleted {
		t.Error("admin delete should remove the job")
	}
}
