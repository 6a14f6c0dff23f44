// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package logos fetches, screens and caches partner logos hosted on other
origins, so that the partners page can serve them from /proxy/logo/{slug}
instead of making visitors' browsers contact every partner's CDN.

A fetched logo must be an image no larger than the configured limit. SVG
documents are additionally rejected when they carry scripts, foreign objects,
event handler attributes or javascript: links.
*/
package logos
