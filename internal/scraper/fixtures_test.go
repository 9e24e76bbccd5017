package scraper

import (
	"context"
	"errors"
	"sync"

	"github.com/jonathan/job-scout/internal/antiblock"
	"github.com/jonathan/job-scout/internal/browser"
)

const listingPage = `<html><body>
<div class="results">
  <article data-card-type="JobCard">
    <h3><a data-automation="jobTitle" href="/job/1001?type=standard">Senior   Go Engineer</a></h3>
    <a data-automation="jobCompany">Acme Pty Ltd</a>
    <a data-automation="jobLocation">Sydney NSW</a>
    <span data-automation="jobSalary">$150,000 - $170,000</span>
    <span data-automation="jobShortDescription">Build distributed systems.</span>
  </article>
  <article data-card-type="JobCard">
    <h3><a data-automation="jobTitle" href="https://www.seek.com.au/job/1002">Platform Engineer</a></h3>
    <a data-automation="jobCompany">Globex</a>
  </article>
  <article data-card-type="JobCard">
    <span data-automation="jobSalary">$90k</span>
  </article>
  <article data-card-type="JobCard">
    <h3><a data-automation="jobTitle" href="/job/1001?type=standard">Senior Go Engineer (duplicate)</a></h3>
  </article>
  <article data-card-type="JobCard">
    <h3><a data-automation="jobTitle" href="/job/1003">SRE</a></h3>
  </article>
</div>
</body></html>`

const fallbackListingPage = `<html><body>
  <article class="job-tile">
    <h2>Data Engineer</h2>
    <a href="/job/2001">View</a>
  </article>
  <article class="news">
    <h2>Company news</h2>
    <a href="/news/1">Read</a>
  </article>
  <article class="job-tile">
    <h3>Analytics Engineer</h3>
    <a href="/job/2002">View</a>
  </article>
</body></html>`

const emptyListingPage = `<html><body><div>No matching results</div></body></html>`

type fakeDriver struct {
	mu       sync.Mutex
	pages    map[string]string
	failures map[string]int // remaining failures per URL
	current  string
	visits   []string
	closed   int
}

func newFakeDriver(pages map[string]string) *fakeDriver {
	return &fakeDriver{pages: pages, failures: map[string]int{}}
}

func (f *fakeDriver) Navigate(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visits = append(f.visits, url)
	if f.failures[url] > 0 {
		f.failures[url]--
		return errors.New("net::ERR_TIMED_OUT")
	}
	if _, ok := f.pages[url]; !ok {
		return errors.New("net::ERR_NAME_NOT_RESOLVED")
	}
	f.current = url
	return nil
}

func (f *fakeDriver) HTML(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pages[f.current], nil
}

func (f *fakeDriver) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func managerFor(d browser.Driver) *browser.Manager {
	return browser.NewManager(browser.LauncherFunc(func(context.Context, antiblock.Identity) (browser.Driver, error) {
		return d, nil
	}), nil)
}
